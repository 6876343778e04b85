// Package nodes exposes the four Lucy generation operations as graph
// nodes: declarative parameter metadata for hosts, a YAML library
// manifest, and the Runner executing one node end to end.
package nodes

import (
	"lucy_nodes/artifact"
	"lucy_nodes/lucygen"
)

// Parameter modes, mirroring how a graph host wires a parameter.
const (
	ModeInput    = "input"
	ModeProperty = "property"
	ModeOutput   = "output"
)

// Node parameter names. Shared between the runner and the declarations.
const (
	ParamPrompt      = "prompt"
	ParamSeed        = "seed"
	ParamResolution  = "resolution"
	ParamOrientation = "orientation"
	ParamImageInput  = "image_input"
	ParamVideoInput  = "video_input"
	ParamImageOutput = "image_output"
	ParamVideoOutput = "video_output"
)

// ParameterSpec declares one node parameter with the UI hints a host needs
// to render it.
type ParameterSpec struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Tooltip     string   `yaml:"tooltip"`
	DisplayName string   `yaml:"display_name"`
	Placeholder string   `yaml:"placeholder,omitempty"`
	Multiline   bool     `yaml:"multiline,omitempty"`
	Choices     []string `yaml:"choices,omitempty"`
	Default     string   `yaml:"default,omitempty"`
	// Settable is false for declared-but-fixed parameters (the 720p
	// resolution on I2V/T2I). The request builder enforces the fixed
	// value regardless; this flag tells hosts not to offer an editor.
	Settable bool     `yaml:"settable"`
	Modes    []string `yaml:"modes,flow"`
}

// NodeSpec declares one node: its operation binding and parameters.
type NodeSpec struct {
	Name        string          `yaml:"name"`
	DisplayName string          `yaml:"display_name"`
	Description string          `yaml:"description"`
	Operation   string          `yaml:"operation"`
	ModelName   string          `yaml:"model"`
	Parameters  []ParameterSpec `yaml:"parameters"`
}

// MediaInputParam returns the input parameter name for the operation's
// required media kind, or "" for text-only operations.
func MediaInputParam(spec lucygen.OperationSpec) string {
	switch spec.RequiredMedia {
	case lucygen.MediaImage:
		return ParamImageInput
	case lucygen.MediaVideo:
		return ParamVideoInput
	default:
		return ""
	}
}

// OutputParam returns the output parameter name for the operation's
// artifact kind.
func OutputParam(spec lucygen.OperationSpec) string {
	if spec.OutputKind == artifact.KindImage {
		return ParamImageOutput
	}
	return ParamVideoOutput
}

// NodeSpecs declares all four nodes from the operation table.
func NodeSpecs() []NodeSpec {
	specs := lucygen.Operations()
	out := make([]NodeSpec, 0, len(specs))
	for _, spec := range specs {
		out = append(out, nodeSpec(spec))
	}
	return out
}

// nodeSpec builds the declaration for one operation.
func nodeSpec(spec lucygen.OperationSpec) NodeSpec {
	mediaNoun := "image"
	if spec.OutputKind == artifact.KindVideo {
		mediaNoun = "video"
	}

	node := NodeSpec{
		Name:        string(spec.Op),
		DisplayName: spec.DisplayName,
		Description: "Generate " + mediaNoun + " using the Decart " + spec.DisplayName + " API.",
		Operation:   string(spec.Op),
		ModelName:   spec.ModelName,
	}

	allModes := []string{ModeInput, ModeProperty, ModeOutput}

	if input := MediaInputParam(spec); input != "" {
		kind := string(spec.RequiredMedia)
		node.Parameters = append(node.Parameters, ParameterSpec{
			Name:        input,
			Type:        kind + "_artifact",
			Tooltip:     "Input " + kind + " to process",
			DisplayName: "Input " + title(kind),
			Settable:    true,
			Modes:       allModes,
		})
	}

	node.Parameters = append(node.Parameters, ParameterSpec{
		Name:        ParamPrompt,
		Type:        "str",
		Tooltip:     "Text prompt for " + mediaNoun + " generation",
		DisplayName: "Prompt",
		Placeholder: "Describe the " + mediaNoun + " you want to generate...",
		Multiline:   true,
		Settable:    true,
		Modes:       allModes,
	})

	if spec.AllowSeed {
		node.Parameters = append(node.Parameters, ParameterSpec{
			Name:        ParamSeed,
			Type:        "int",
			Tooltip:     "Seed for reproducible generation",
			DisplayName: "Seed",
			Settable:    true,
			Modes:       allModes,
		})
	}

	switch {
	case spec.FixedResolution != "":
		node.Parameters = append(node.Parameters, ParameterSpec{
			Name:        ParamResolution,
			Type:        "str",
			Tooltip:     "Resolution (read-only, this model only supports " + spec.FixedResolution + ")",
			DisplayName: "Resolution",
			Default:     spec.FixedResolution,
			Settable:    false,
			Modes:       []string{ModeProperty},
		})
	case len(spec.ResolutionChoices) > 0:
		node.Parameters = append(node.Parameters, ParameterSpec{
			Name:        ParamResolution,
			Type:        "str",
			Tooltip:     title(mediaNoun) + " resolution",
			DisplayName: "Resolution",
			Choices:     spec.ResolutionChoices,
			Default:     spec.DefaultResolution,
			Settable:    true,
			Modes:       allModes,
		})
	}

	if len(spec.OrientationChoices) > 0 {
		node.Parameters = append(node.Parameters, ParameterSpec{
			Name:        ParamOrientation,
			Type:        "str",
			Tooltip:     title(mediaNoun) + " orientation",
			DisplayName: "Orientation",
			Choices:     spec.OrientationChoices,
			Default:     spec.DefaultOrientation,
			Settable:    true,
			Modes:       allModes,
		})
	}

	node.Parameters = append(node.Parameters, ParameterSpec{
		Name:        OutputParam(spec),
		Type:        mediaNoun + "_url_artifact",
		Tooltip:     "Output " + mediaNoun + " from " + spec.DisplayName,
		DisplayName: "Output " + title(mediaNoun),
		Settable:    false,
		Modes:       []string{ModeOutput},
	})

	return node
}

// title uppercases the first byte of an ASCII word.
func title(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
