package config

import (
	_ "embed"
)

//go:embed defaults/fair2048.yaml
var defaultYAML []byte
