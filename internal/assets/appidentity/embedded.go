package appidentityassets

import _ "embed"

// YAML is the embedded application identity used when no external identity
// file is configured.
//
//go:embed app.yaml
var YAML []byte
