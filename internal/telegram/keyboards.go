package telegram

import (
	tele "gopkg.in/telebot.v3"
)

// Callback identifiers carried by inline buttons.
const (
	cbVerifyJoin     = "verify_join"
	cbCoins          = "coins"
	cbRefer          = "refer"
	cbTasks          = "tasks"
	cbBoost          = "boost"
	cbLeaderboard    = "leaderboard"
	cbSupport        = "support"
	cbAddVerifier    = "add_verifier"
	cbRemoveVerifier = "remove_verifier"
	cbListVerifiers  = "list_verifiers"
)

func mainMenu(miniAppURL string) *tele.ReplyMarkup {
	keyboard := &tele.ReplyMarkup{}
	keyboard.Inline(
		keyboard.Row(
			keyboard.Data("💰 Coins", cbCoins),
			keyboard.Data("👥 Refer", cbRefer),
		),
		keyboard.Row(
			keyboard.Data("📋 Tasks", cbTasks),
			keyboard.Data("⚡ Boost Mode", cbBoost),
		),
		keyboard.Row(
			keyboard.Data("🏆 Leaderboard", cbLeaderboard),
			keyboard.Data("🆘 Support", cbSupport),
		),
		keyboard.Row(
			keyboard.WebApp("🌐 Mini App", &tele.WebApp{URL: miniAppURL}),
		),
	)
	return keyboard
}

func joinKeyboard(channel string) *tele.ReplyMarkup {
	keyboard := &tele.ReplyMarkup{}
	keyboard.Inline(
		keyboard.Row(
			keyboard.URL("✅ Join Channel", "https://t.me/"+channel),
		),
		keyboard.Row(
			keyboard.Data("🔄 Verify", cbVerifyJoin),
		),
	)
	return keyboard
}

func adminKeyboard() *tele.ReplyMarkup {
	keyboard := &tele.ReplyMarkup{}
	keyboard.Inline(
		keyboard.Row(
			keyboard.Data("👥 Add Verifier", cbAddVerifier),
			keyboard.Data("❌ Remove Verifier", cbRemoveVerifier),
		),
		keyboard.Row(
			keyboard.Data("📋 List Verifiers", cbListVerifiers),
		),
	)
	return keyboard
}
