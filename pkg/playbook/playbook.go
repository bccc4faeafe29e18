package playbook

import (
	"weftworks/weft/pkg/playbook/pipeline"
	"weftworks/weft/pkg/playbook/vars"
)

// Process is a convenience function that runs the full pipeline over raw
// playbook text. Include resolution anchors at sourcePath's directory.
func Process(data []byte, sourcePath string, env vars.Environment) pipeline.Result {
	return pipeline.New(nil).Run(data, sourcePath, env)
}

// ProcessFile is a convenience function that reads and resolves a playbook
// file against the environment.
func ProcessFile(path string, env vars.Environment) pipeline.Result {
	return pipeline.New(nil).RunFile(path, env)
}
