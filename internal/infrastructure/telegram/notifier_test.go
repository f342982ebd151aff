package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsAgent/internal/config"
)

type botServer struct {
	mu       sync.Mutex
	paths    []string
	texts    []string
	chatIDs  []string
	status   int
	response string
}

func (b *botServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	b.mu.Lock()
	b.paths = append(b.paths, r.URL.Path)
	b.texts = append(b.texts, r.PostForm.Get("text"))
	b.chatIDs = append(b.chatIDs, r.PostForm.Get("chat_id"))
	b.mu.Unlock()

	status := b.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(b.response))
}

func TestPublishDigest(t *testing.T) {
	t.Parallel()

	bot := &botServer{response: `{"ok":true}`}
	server := httptest.NewServer(bot)
	t.Cleanup(server.Close)

	n := NewNotifier(config.TelegramConfig{BotToken: "123:abc", ChatID: "-100"}, server.URL+"/", server.Client())
	require.NoError(t, n.PublishDigest(context.Background(), "Top 1 business stories\n\n1. Title"))

	require.Len(t, bot.paths, 1)
	assert.Equal(t, "/bot123:abc/sendMessage", bot.paths[0])
	assert.Equal(t, "-100", bot.chatIDs[0])
	assert.Equal(t, "Top 1 business stories\n\n1. Title", bot.texts[0])
}

func TestPublishDigestSplitsLongMessages(t *testing.T) {
	t.Parallel()

	bot := &botServer{}
	server := httptest.NewServer(bot)
	t.Cleanup(server.Close)

	paragraph := strings.Repeat("é", 1500)
	digest := strings.Join([]string{paragraph, paragraph, paragraph, paragraph}, "\n\n")

	n := NewNotifier(config.TelegramConfig{BotToken: "t", ChatID: "c"}, server.URL, server.Client())
	require.NoError(t, n.PublishDigest(context.Background(), digest))

	require.Len(t, bot.texts, 2)
	for _, text := range bot.texts {
		assert.LessOrEqual(t, utf8.RuneCountInString(text), maxMessageRunes)
	}
	assert.Equal(t, paragraph+"\n\n"+paragraph, bot.texts[0])
}

func TestPublishDigestErrors(t *testing.T) {
	t.Parallel()

	bot := &botServer{status: http.StatusBadRequest, response: `{"ok":false,"description":"chat not found"}`}
	server := httptest.NewServer(bot)
	t.Cleanup(server.Close)

	n := NewNotifier(config.TelegramConfig{BotToken: "t", ChatID: "c"}, server.URL, server.Client())
	err := n.PublishDigest(context.Background(), "digest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")

	misconfigured := NewNotifier(config.TelegramConfig{BotToken: "t"}, server.URL, server.Client())
	require.Error(t, misconfigured.PublishDigest(context.Background(), "digest"))
}

func TestPublishEmptyDigestIsNoop(t *testing.T) {
	t.Parallel()

	bot := &botServer{}
	server := httptest.NewServer(bot)
	t.Cleanup(server.Close)

	n := NewNotifier(config.TelegramConfig{BotToken: "t", ChatID: "c"}, server.URL, server.Client())
	require.NoError(t, n.PublishDigest(context.Background(), "  "))
	assert.Empty(t, bot.paths)
}

func TestSplitMessageWithoutParagraphs(t *testing.T) {
	t.Parallel()

	chunks := splitMessage(strings.Repeat("a", 25), 10)
	assert.Equal(t, []string{"aaaaaaaaaa", "aaaaaaaaaa", "aaaaa"}, chunks)
}
