package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	applogger "wingman/pkg/logger"
)

const startText = "✅ Wingman bot is alive.\n" +
	"Commands:\n" +
	"• /ping — quick test\n" +
	"• /chatid — show this chat id\n" +
	"• /analyze [SYMBOL] [TF] — analyze latest TA (e.g., /analyze BINANCE:PYTHUSDT 240)\n" +
	"Tip: keep TradingView alerts running so I always have fresh TA cached."

const noCachedText = "No cached TradingView data yet for that request.\n" +
	"Usage: /analyze <SYMBOL> [TF]\n" +
	"Example: /analyze BINANCE:PYTHUSDT 240\n" +
	"Tip: create a TradingView alert for that symbol/timeframe and wait for the next bar close."

// Replier sends bot replies to the chat a command came from.
type Replier interface {
	SendTo(ctx context.Context, chatID int64, text string) error
}

// Bot routes incoming chat commands. It satisfies the poller's and the
// webhook's update handler.
type Bot struct {
	analyzer *Analyzer
	replier  Replier
	logger   *applogger.Logger
}

func NewBot(analyzer *Analyzer, replier Replier, l *applogger.Logger) *Bot {
	return &Bot{analyzer: analyzer, replier: replier, logger: l}
}

// HandleUpdate dispatches one chat message. Non-command text and unknown
// commands are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, chatID int64, text string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return
	}

	// "/analyze@wingman_bot" in group chats
	command := strings.SplitN(fields[0], "@", 2)[0]

	var reply string
	switch command {
	case "/start":
		reply = startText
	case "/ping":
		reply = "🏓 Pong!"
	case "/chatid":
		reply = fmt.Sprintf("Your chat_id is: %d", chatID)
	case "/analyze":
		reply = b.analyze(ctx, fields[1:])
	default:
		return
	}

	if err := b.replier.SendTo(ctx, chatID, reply); err != nil {
		b.logger.Error("bot reply failed",
			applogger.String("command", command),
			applogger.Int64("chat_id", chatID),
			applogger.Error(err))
	}
}

func (b *Bot) analyze(ctx context.Context, args []string) string {
	var symbol, timeframe string
	if len(args) >= 1 {
		symbol = args[0]
	}
	if len(args) >= 2 {
		timeframe = args[1]
	}

	resp, err := b.analyzer.Analyze(ctx, symbol, timeframe)
	if errors.Is(err, ErrNoCachedData) {
		return noCachedText
	}
	if err != nil {
		return fmt.Sprintf("Error in /analyze: %v", err)
	}
	return resp.Plan
}
