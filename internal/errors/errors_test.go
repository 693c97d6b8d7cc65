package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"github.com/fulmenhq/gofulmen/errors"
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/stretchr/testify/require"

	"github.com/xtractor/xtractor/internal/archive"
	"github.com/xtractor/xtractor/internal/media"
	"github.com/xtractor/xtractor/internal/metadata"
)

func TestFromDocumentError(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-42")

	cases := []struct {
		name string
		err  error
		code string
	}{
		{
			name: "not office",
			err:  &archive.OpenError{Path: "a.docx", Reason: archive.ErrNotOffice},
			code: CodeInvalidContainer,
		},
		{
			name: "missing part",
			err:  &metadata.ParseError{Part: metadata.AppPart, Err: metadata.ErrPartMissing},
			code: CodeMetadataMissing,
		},
		{
			name: "malformed part",
			err:  &metadata.ParseError{Part: metadata.CorePart, Err: stderrors.New("unexpected EOF")},
			code: CodeMetadataInvalid,
		},
		{
			name: "output is a file",
			err:  fmt.Errorf("out: %w", media.ErrNotDirectory),
			code: CodeExtractionFailed,
		},
		{
			name: "unknown",
			err:  stderrors.New("boom"),
			code: CodeInternal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := FromDocumentError(ctx, "a.docx", tc.err)
			require.Equal(t, tc.code, env.Code)
			require.Equal(t, "run-42", env.CorrelationID)
			require.Equal(t, "a.docx", env.Context["path"])
			require.Equal(t, tc.err.Error(), env.Context["wrapped_error"])
			require.NotEmpty(t, env.Severity)
		})
	}
}

func TestEnsureEnvelope(t *testing.T) {
	env := EnsureEnvelope(nil)
	require.Equal(t, CodeInternal, env.Code)
	require.Equal(t, errors.SeverityCritical, env.Severity)

	original := NewConfigInvalidError("bad config")
	require.Same(t, original, EnsureEnvelope(original))

	wrapped := EnsureEnvelope(stderrors.New("boom"))
	require.Equal(t, CodeInternal, wrapped.Code)
	require.Equal(t, "boom", wrapped.Context["wrapped_error"])
	require.NotEmpty(t, wrapped.CorrelationID)
}

func TestExitCode(t *testing.T) {
	ctx := context.Background()

	_, statErr := os.Stat("/definitely/not/here.docx")
	require.Equal(t, foundry.ExitFileNotFound, ExitCode(WrapInputError(ctx, "/definitely/not/here.docx", statErr)))
	require.Equal(t, foundry.ExitFailure, ExitCode(WrapInputError(ctx, "/dev/null", stderrors.New("unsupported"))))
	require.Equal(t, foundry.ExitConfigInvalid, ExitCode(WrapConfigInvalid(ctx, stderrors.New("x"), "bad")))
	require.Equal(t, foundry.ExitFailure, ExitCode(FromDocumentError(ctx, "a", stderrors.New("x"))))
	require.Equal(t, foundry.ExitFailure, ExitCode(nil))
}

func TestRunIDRoundTrip(t *testing.T) {
	require.Equal(t, "", RunID(context.Background()))
	require.Equal(t, "abc", RunID(WithRunID(context.Background(), "abc")))
}
