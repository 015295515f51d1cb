package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(AgentsFile, "screen-resume")
	require.NoError(t, err)
	assert.Contains(t, prompt, "technical recruiter screening resumes")
	assert.Contains(t, prompt, "{{.Resume}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(AgentsFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	result := Format(template, data)
	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"

	result := Format(template, map[string]string{})
	assert.Equal(t, template, result) // Placeholder remains
}

func TestFormat_ValuesAreNotReexpanded(t *testing.T) {
	result := Format("Resume: {{.Resume}} / {{.Name}}", map[string]string{
		"Resume": "I wrote {{.Name}} templates",
		"Name":   "Ann",
	})
	assert.Equal(t, "Resume: I wrote {{.Name}} templates / Ann", result)
}

func TestRender(t *testing.T) {
	ClearCache()

	prompt, err := Render("write-offer", map[string]string{
		"Name":      "Jane Doe",
		"Title":     "Senior Frontend Engineer",
		"Salary":    "$165,000",
		"StartDate": "2025-06-01",
		"Benefits":  "Standard benefits package",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Candidate: Jane Doe")
	assert.Contains(t, prompt, "Salary: $165,000")
	assert.NotContains(t, prompt, "{{.")
}

func TestList_AllAgents(t *testing.T) {
	ClearCache()

	keys, err := List(AgentsFile)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"background-risk",
		"estimate-salary",
		"interview-questions",
		"screen-resume",
		"sourcing-strategy",
		"write-job-description",
		"write-offer",
	}, keys)
}

func TestCaching(t *testing.T) {
	ClearCache()

	prompt1, err := Get(AgentsFile, "estimate-salary")
	require.NoError(t, err)

	prompt2, err := Get(AgentsFile, "estimate-salary")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
