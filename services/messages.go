package services

import (
	"fmt"

	"CafeMaemi/models"
)

// Localized user-facing strings.

func ContactSuccessMessage(lang models.Language) string {
	return lang.Pick("Thank you! Your message has been sent.", "ありがとうございます。メッセージを送信しました。")
}

func ContactErrorMessage(lang models.Language) string {
	return lang.Pick("Something went wrong. Please try again.", "送信中にエラーが発生しました。もう一度お試しください。")
}

func ContactInvalidMessage(lang models.Language) string {
	return lang.Pick("Please fill in your name, email and message.", "お名前、メールアドレス、メッセージを入力してください。")
}

func UploadTooLargeMessage(lang models.Language, limit int64) string {
	mb := float64(limit) / (1 << 20)
	return lang.Pick(
		fmt.Sprintf("Image is too large. Please choose a file under %.0f MB.", mb),
		fmt.Sprintf("画像が大きすぎます。%.0fMB以下のファイルを選択してください。", mb),
	)
}

func UploadFailedMessage(lang models.Language) string {
	return lang.Pick("Image upload failed. Please try again.", "画像のアップロードに失敗しました。もう一度お試しください。")
}

func recommendationKeyMissing(lang models.Language) string {
	return lang.Pick("API Key missing. Please configure the environment.", "APIキーが設定されていません。")
}

func recommendationUnavailable(lang models.Language) string {
	return lang.Pick(
		"Sorry, I'm having trouble thinking right now. Please ask a human staff member!",
		"申し訳ありません、現在AIが応答できません。スタッフにお尋ねください。",
	)
}

func recommendationEmpty(lang models.Language) string {
	return lang.Pick("I couldn't find a recommendation.", "おすすめが見つかりませんでした。")
}

func insightsKeyMissing(lang models.Language) string {
	return lang.Pick("API Key missing.", "APIキーがありません。")
}

func insightsUnavailable(lang models.Language) string {
	return lang.Pick("Could not analyze reviews.", "口コミを分析できませんでした。")
}
