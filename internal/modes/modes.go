package modes

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultID is the mode used when no mode, or an unknown one, is requested.
const DefaultID = "checker"

// Input names where a mode takes its primary text body from.
type Input string

const (
	// InputFiles reads code fragments from --file and --dir.
	InputFiles Input = "files"
	// InputStdin reads a diff from standard input or git.
	InputStdin Input = "stdin"
	// InputNone takes no body; the question is the whole subject.
	InputNone Input = "none"
)

const (
	questionLabel     = "Here is the question about the code: "
	bareQuestionLabel = "Here is the question: "
)

// Definition describes one analysis mode. Definitions are shared read-only
// once a Registry has been built.
type Definition struct {
	ID               string   `yaml:"id" json:"id"`
	Prompts          []string `yaml:"prompts" json:"-"`
	RequiresQuestion bool     `yaml:"requiresQuestion" json:"requiresQuestion"`
	RequiresCriteria bool     `yaml:"requiresCriteria" json:"requiresCriteria"`
	Input            Input    `yaml:"input" json:"input"`
	QuestionLabel    string   `yaml:"questionLabel" json:"-"`
	DoneLabel        string   `yaml:"doneLabel" json:"doneLabel"`
	Description      string   `yaml:"description" json:"description"`
}

// UsesBody reports whether the mode sends a code body to the model.
func (d Definition) UsesBody() bool {
	return d.Input != InputNone
}

var builtin = []Definition{
	{
		ID:               "ask",
		Prompts:          []string{askPrompt},
		RequiresQuestion: true,
		Input:            InputNone,
		QuestionLabel:    bareQuestionLabel,
		DoneLabel:        "Answer generated",
		Description:      "Answer a general software engineering question",
	},
	{
		ID:          "checker",
		Prompts:     []string{checkerPrompt},
		Input:       InputFiles,
		DoneLabel:   "Checked",
		Description: "Audit code for security and correctness issues",
	},
	{
		ID:          "commit_review",
		Prompts:     []string{commitReviewPrompt},
		Input:       InputStdin,
		DoneLabel:   "Commit review generated",
		Description: "Review a commit diff",
	},
	{
		ID:          "commit_summary",
		Prompts:     []string{commitSummaryPrompt},
		Input:       InputStdin,
		DoneLabel:   "Commit summary generated",
		Description: "Write a Conventional Commits title and summary for a diff",
	},
	{
		ID:          "convert_to_rust",
		Prompts:     []string{convertToRustPrompt},
		Input:       InputFiles,
		DoneLabel:   "Converted",
		Description: "Convert code to idiomatic Rust",
	},
	{
		ID:               "criteria_verify",
		Prompts:          []string{criteriaVerifyPrompt},
		RequiresCriteria: true,
		Input:            InputStdin,
		DoneLabel:        "Criteria verified",
		Description:      "Verify a diff against acceptance criteria",
	},
	{
		ID:            "design_advice",
		Prompts:       []string{designAdvicePrompt},
		Input:         InputFiles,
		QuestionLabel: questionLabel,
		DoneLabel:     "Design advice generated",
		Description:   "Give design guidance using code as context",
	},
	{
		ID:            "explain",
		Prompts:       []string{explainPrompt},
		Input:         InputFiles,
		QuestionLabel: questionLabel,
		DoneLabel:     "Explained",
		Description:   "Explain what code does",
	},
	{
		ID:          "performance",
		Prompts:     []string{performancePrompt},
		Input:       InputFiles,
		DoneLabel:   "Checked",
		Description: "Audit code for performance issues",
	},
	{
		ID:          "task_comment",
		Prompts:     []string{taskCommentPrompt},
		Input:       InputStdin,
		DoneLabel:   "Task comment generated",
		Description: "Summarize a diff as a task comment",
	},
	{
		ID:               "task_criteria_check",
		Prompts:          []string{taskCriteriaCheckPrompt},
		RequiresCriteria: true,
		Input:            InputStdin,
		DoneLabel:        "Task criteria check generated",
		Description:      "Check a diff against task acceptance criteria",
	},
	{
		ID:          "task_generate",
		Prompts:     []string{taskGeneratePrompt},
		Input:       InputStdin,
		DoneLabel:   "Task generated",
		Description: "Write a task description with acceptance criteria for a diff",
	},
	{
		ID:          "task_review",
		Prompts:     []string{taskReviewPrompt},
		Input:       InputStdin,
		DoneLabel:   "Task review generated",
		Description: "Summarize a diff with testing instructions",
	},
}

// Registry maps mode identifiers to definitions.
type Registry struct {
	defs  map[string]Definition
	order []string
}

// Builtin returns a registry holding the built-in modes.
func Builtin() *Registry {
	r := &Registry{defs: make(map[string]Definition, len(builtin))}
	for _, d := range builtin {
		r.add(d)
	}
	return r
}

func (r *Registry) add(d Definition) {
	if _, exists := r.defs[d.ID]; !exists {
		r.order = append(r.order, d.ID)
	}
	r.defs[d.ID] = d
}

// Lookup resolves a mode identifier case-insensitively. Empty or unknown
// identifiers resolve to the default mode.
func (r *Registry) Lookup(id string) Definition {
	if d, ok := r.Get(id); ok {
		return d
	}
	return clone(r.defs[DefaultID])
}

// Get resolves a mode identifier case-insensitively and reports whether it
// is registered.
func (r *Registry) Get(id string) (Definition, bool) {
	d, ok := r.defs[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Definition{}, false
	}
	return clone(d), true
}

// List returns every definition sorted by identifier.
func (r *Registry) List() []Definition {
	ids := slices.Clone(r.order)
	slices.Sort(ids)
	defs := make([]Definition, 0, len(ids))
	for _, id := range ids {
		defs = append(defs, clone(r.defs[id]))
	}
	return defs
}

func clone(d Definition) Definition {
	d.Prompts = slices.Clone(d.Prompts)
	return d
}

// modesFile is the YAML layout of a custom modes file.
type modesFile struct {
	Modes []Definition `yaml:"modes"`
}

// Load returns the built-in registry extended with the modes in path.
// An empty path yields the built-in registry. Entries whose id matches a
// built-in mode replace it.
func Load(path string) (*Registry, error) {
	r := Builtin()
	if path == "" {
		return r, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading modes file: %w", err)
	}
	var f modesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing modes file: %w", err)
	}
	for i, d := range f.Modes {
		d, err := normalize(d)
		if err != nil {
			return nil, fmt.Errorf("modes file entry %d: %w", i+1, err)
		}
		r.add(d)
	}
	return r, nil
}

func normalize(d Definition) (Definition, error) {
	d.ID = strings.ToLower(strings.TrimSpace(d.ID))
	if d.ID == "" {
		return Definition{}, fmt.Errorf("id is required")
	}
	if len(d.Prompts) == 0 {
		return Definition{}, fmt.Errorf("mode %q: at least one prompt is required", d.ID)
	}
	switch d.Input {
	case "":
		d.Input = InputFiles
	case InputFiles, InputStdin, InputNone:
	default:
		return Definition{}, fmt.Errorf("mode %q: unknown input %q", d.ID, d.Input)
	}
	if d.Input == InputNone && !d.RequiresQuestion {
		return Definition{}, fmt.Errorf("mode %q: input none requires a question", d.ID)
	}
	if d.QuestionLabel == "" {
		d.QuestionLabel = questionLabel
		if d.Input == InputNone {
			d.QuestionLabel = bareQuestionLabel
		}
	}
	if d.DoneLabel == "" {
		d.DoneLabel = "Done"
	}
	return d, nil
}
