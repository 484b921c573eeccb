package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alchemorsel/souschef/internal/domain/recipe"
	"github.com/alchemorsel/souschef/internal/infrastructure/search"
	"github.com/alchemorsel/souschef/internal/ports/inbound"
	"github.com/alchemorsel/souschef/pkg/errors"
)

// scriptedModel answers intent prompts and generation prompts separately
// and counts how often each is called.
type scriptedModel struct {
	intentReply   string
	intentErr     error
	generateReply string
	generateErr   error

	intentCalls   int
	generateCalls int
}

func (m *scriptedModel) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "YES or NO") {
		m.intentCalls++
		return m.intentReply, m.intentErr
	}
	m.generateCalls++
	return m.generateReply, m.generateErr
}

func testHolder(t *testing.T) *search.Holder {
	t.Helper()

	rows := []struct{ title, ingredients, instructions string }{
		{"Chicken Rice Bowl", "Chicken, Rice, Soy Sauce", "1. Cook the rice. 2. Fry the chicken. 3. Season with soy sauce."},
		{"Lentil Soup", "Lentil, Onion, Carrot, Tomato Paste, Mint", "1. Saute the onion. 2. Simmer the lentils."},
		{"Pasta Salad", "Pasta, Mayonnaise, Peas, Carrot, Pickles", "1. Boil the pasta. 2. Mix everything."},
	}

	var recipes []*recipe.Recipe
	for _, row := range rows {
		r, err := recipe.New(row.title, row.ingredients, row.instructions, "")
		require.NoError(t, err)
		recipes = append(recipes, r)
	}

	index, err := search.BuildIndex(recipes)
	require.NoError(t, err)
	return search.NewHolder(index)
}

func newTestService(t *testing.T, model *scriptedModel) *Service {
	t.Helper()
	logger := zap.NewNop()
	return NewService(
		testHolder(t),
		NewIntentClassifier(model, noopMetrics{}, logger),
		NewFormatter(model, noopMetrics{}, logger),
		DefaultOptions(),
		nil,
		logger,
	)
}

func TestClassifyReplyParsing(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  bool
	}{
		{"plain yes", "YES", true},
		{"plain no", "NO", false},
		{"no with commentary", "NO, that's not a recipe.", false},
		{"both tokens", "Sure thing, YESNO", true},
		{"lowercase no", "no", false},
		{"neither token", "I cannot tell.", true},
		{"empty reply", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &scriptedModel{intentReply: tt.reply}
			c := NewIntentClassifier(model, noopMetrics{}, zap.NewNop())

			assert.Equal(t, tt.want, c.Classify(context.Background(), "dinner ideas"))
		})
	}
}

func TestClassifyFailsOpen(t *testing.T) {
	model := &scriptedModel{intentErr: errors.NewRemoteUnavailableError("gemini", nil)}
	c := NewIntentClassifier(model, noopMetrics{}, zap.NewNop())

	assert.True(t, c.Classify(context.Background(), "dinner ideas"))
}

func TestAskDirectAnswer(t *testing.T) {
	// A near-exact ingredient match must be served from the cookbook
	// without a generation call.
	model := &scriptedModel{intentReply: "YES"}
	service := newTestService(t, model)

	resp, err := service.Ask(context.Background(), "s1", "chicken, rice, soy sauce")

	require.NoError(t, err)
	assert.Equal(t, inbound.OutcomeDirect, resp.Outcome)
	assert.Contains(t, resp.ReplyHTML, "<h3>Chicken Rice Bowl</h3>")
	assert.Contains(t, resp.ReplyHTML, "<ul><li>Chicken</li>")
	assert.Contains(t, resp.ReplyHTML, "<ol><li>Cook the rice.</li>")
	require.NotEmpty(t, resp.Matches)
	assert.Equal(t, "Chicken Rice Bowl", resp.Matches[0].Title)
	assert.Equal(t, 0, model.generateCalls)
}

func TestAskRejected(t *testing.T) {
	model := &scriptedModel{intentReply: "NO"}
	service := newTestService(t, model)

	resp, err := service.Ask(context.Background(), "s1", "what's the weather today")

	require.NoError(t, err)
	assert.Equal(t, inbound.OutcomeRejected, resp.Outcome)
	assert.Equal(t, declineReply, resp.ReplyHTML)
	assert.Empty(t, resp.Matches)
	assert.Equal(t, 0, model.generateCalls)
}

func TestAskEmptyMessageRejectedWithoutModelCall(t *testing.T) {
	model := &scriptedModel{intentReply: "YES"}
	service := newTestService(t, model)

	resp, err := service.Ask(context.Background(), "s1", "   ")

	require.NoError(t, err)
	assert.Equal(t, inbound.OutcomeRejected, resp.Outcome)
	assert.Equal(t, 0, model.intentCalls)
}

func TestAskGenerateWithCandidates(t *testing.T) {
	// Weak overlap stays below the confident threshold, so the model
	// composes the reply from the candidates.
	model := &scriptedModel{
		intentReply:   "YES",
		generateReply: "<h3>Improvised Lentil Stew</h3><b>Ingredients:</b><ul><li>Lentil</li></ul>",
	}
	service := newTestService(t, model)

	resp, err := service.Ask(context.Background(), "s1", "something warming with lentil and plenty of cumin and smoked paprika")

	require.NoError(t, err)
	assert.Equal(t, inbound.OutcomeGenerated, resp.Outcome)
	assert.Contains(t, resp.ReplyHTML, "Improvised Lentil Stew")
	assert.Equal(t, 1, model.generateCalls)
}

func TestAskGenerateNoCandidatesModelDown(t *testing.T) {
	// No ingredient overlap and a dead model must still produce a
	// labeled reply, never an error.
	model := &scriptedModel{
		intentReply: "YES",
		generateErr: errors.NewRemoteUnavailableError("gemini", nil),
	}
	service := newTestService(t, model)

	resp, err := service.Ask(context.Background(), "s1", "dragonfruit tapioca surprise")

	require.NoError(t, err)
	assert.Equal(t, inbound.OutcomeFallback, resp.Outcome)
	assert.Equal(t, placeholderReply, resp.ReplyHTML)
	assert.Empty(t, resp.Matches)
}

func TestAskFallbackRendersBestCandidate(t *testing.T) {
	model := &scriptedModel{
		intentReply: "YES",
		generateErr: errors.NewRemoteUnavailableError("gemini", nil),
	}
	service := newTestService(t, model)

	resp, err := service.Ask(context.Background(), "s1", "a big festive salad with peas for twelve guests")

	require.NoError(t, err)
	assert.Equal(t, inbound.OutcomeFallback, resp.Outcome)
	assert.Contains(t, resp.ReplyHTML, "<h3>Pasta Salad</h3>")
	assert.Contains(t, resp.ReplyHTML, "unavailable")
}

func TestGenerateWrapsBareText(t *testing.T) {
	model := &scriptedModel{generateReply: "Just boil it for ten minutes."}
	f := NewFormatter(model, noopMetrics{}, zap.NewNop())

	reply, fellBack := f.Generate(context.Background(), "how long to boil eggs", nil)

	assert.False(t, fellBack)
	assert.Equal(t, "<p>Just boil it for ten minutes.</p>", reply)
}

func TestGenerateEmptyReplyFallsBack(t *testing.T) {
	model := &scriptedModel{generateReply: "   "}
	f := NewFormatter(model, noopMetrics{}, zap.NewNop())

	reply, fellBack := f.Generate(context.Background(), "dinner", nil)

	assert.True(t, fellBack)
	assert.Equal(t, placeholderReply, reply)
}

func TestGeneratePromptIncludesCandidates(t *testing.T) {
	var captured string
	model := &capturingModel{reply: "<p>ok</p>", captured: &captured}
	f := NewFormatter(model, noopMetrics{}, zap.NewNop())

	r, err := recipe.New("Lentil Soup", "Lentil, Onion", "1. Simmer.", "")
	require.NoError(t, err)

	f.Generate(context.Background(), "soup ideas", []search.Match{{Recipe: r, Score: 0.3}})

	assert.Contains(t, captured, "Lentil Soup")
	assert.Contains(t, captured, "soup ideas")
}

type capturingModel struct {
	reply    string
	captured *string
}

func (m *capturingModel) Complete(ctx context.Context, prompt string) (string, error) {
	*m.captured = prompt
	return m.reply, nil
}

func TestRenderRecipeHTMLEscapes(t *testing.T) {
	r, err := recipe.New("Tom & Jerry's <Special>", "Rum, Egg", "1. Mix well.", "")
	require.NoError(t, err)

	out := renderRecipeHTML(r)

	assert.Contains(t, out, "Tom &amp; Jerry&#39;s &lt;Special&gt;")
	assert.NotContains(t, out, "<Special>")
}
