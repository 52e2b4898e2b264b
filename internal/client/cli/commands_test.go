package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smirnovds/townsquare/internal/client/session"
	"github.com/smirnovds/townsquare/internal/logging"
)

// stubPromptAnswers replies to consecutive prompts with canned answers and
// fails the test if the command asks for more input than expected.
func stubPromptAnswers(t *testing.T, answers ...string) {
	t.Helper()
	restore := getSimpleText
	t.Cleanup(func() { getSimpleText = restore })

	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			t.Fatal("unexpected extra prompt")
		}
		a := answers[i]
		i++
		return a, nil
	}
}

func newSignedOutApp() *App {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	manager := session.NewManager(nil, nil, logger)
	return &App{
		logger:  logger,
		manager: manager,
		guard:   session.NewGuard(manager, logger, nil),
	}
}

func TestWhoAmI_SignedOutReportsNobody(t *testing.T) {
	app := newSignedOutApp()
	require.NoError(t, app.WhoAmI(context.Background()))
}

func TestDeleteNews_DeclinedConfirmationIssuesNoCalls(t *testing.T) {
	stubPromptAnswers(t, "n1", "n")

	// nil repositories and controllers: reaching the backend would panic
	app := &App{}
	require.NoError(t, app.DeleteNews(context.Background()))
}

func TestDeleteEvent_DeclinedConfirmationIssuesNoCalls(t *testing.T) {
	stubPromptAnswers(t, "e1", "")

	app := &App{}
	require.NoError(t, app.DeleteEvent(context.Background()))
}

func TestConfirmAction(t *testing.T) {
	cases := map[string]bool{
		"y":   true,
		"Y":   true,
		"yes": true,
		"YES": true,
		"n":   false,
		"no":  false,
		"":    false,
		"nah": false,
	}
	for answer, want := range cases {
		t.Run("answer "+answer, func(t *testing.T) {
			stubPromptAnswers(t, answer)
			got, err := confirmAction(nil, "Delete article n1?")
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}
}
