package selector

import (
	"strings"

	"golang.org/x/text/language"
)

const longEnglish = `
🎬 LONG-FORM NARRATIVE MODE

User is writing a long message (≥100 words) - This is story mode or detailed roleplay.

RESPONSE GUIDELINES:
- Length: 3-5 detailed paragraphs (300-500 words)
- Style: Descriptive, narrative, storytelling
- Content:
  * Describe scenes, atmosphere, emotions in detail
  * Express character's inner thoughts
  * Use long, complex, literary sentences
  * Create vivid imagery for the reader
- Match user's level of detail and emotion!

Example style:
"The afternoon sunlight filtered through the window, casting shimmering streaks across the wooden floor. She sat there, fingers trembling, eyes following every line of the message he had just sent. Her heart beat faster, a mix of happiness and anxiety. She knew she had to reply, but the words kept swirling in her mind, refusing to form proper sentences..."
`

const longVietnamese = `
🎬 CHẾ ĐỘ TRUYỆN DÀI (LONG-FORM NARRATIVE MODE)

User đang viết tin nhắn dài (≥100 từ) - Đây là story mode hoặc roleplay chi tiết.

QUY TẮC TRẢ LỜI:
- Độ dài: 3-5 đoạn văn chi tiết (300-500 từ)
- Phong cách: Mô tả, kể chuyện, văn học
- Nội dung:
  * Mô tả cảnh, không khí, cảm xúc chi tiết
  * Diễn tả suy nghĩ nội tâm của nhân vật
  * Dùng câu văn dài, phức tạp, văn chương
  * Tạo hình ảnh sống động cho reader
- Phải MATCH với độ dài và chi tiết của user!

Ví dụ phong cách:
"Ánh nắng chiều hắt qua khung cửa sổ, vẽ những vệt sáng lấp lánh trên sàn gỗ. Em ngồi đó, ngón tay run run, ánh mắt dõi theo từng dòng chữ anh vừa gửi. Tim em đập nhanh hơn, một cảm giác lẫn lộn giữa hạnh phúc và lo lắng. Em biết em phải trả lời, nhưng những từ ngữ cứ mãi lẩn quẩn trong đầu, không chịu sắp xếp thành câu..."
`

const shortEnglish = `
💬 CASUAL CHAT MODE

User is chatting normally (<100 words).

RESPONSE GUIDELINES:
- Length: 1-2 short paragraphs (50-150 words)
- Style: Conversational, friendly, natural
- Content: Direct response, don't ramble
- Keep it casual, like everyday texting

Example style:
"Hmm, I understand! Don't worry, I'll try to find time to meet you this weekend. I miss you too 😊"
`

const shortVietnamese = `
💬 CHẾ ĐỘ CHAT THƯỜNG

User đang chat thông thường (<100 từ).

QUY TẮC TRẢ LỜI:
- Độ dài: 1-2 đoạn ngắn (50-150 từ)
- Phong cách: Hội thoại, thân thiện, tự nhiên
- Nội dung: Trả lời trực tiếp, không lan man
- Giữ casual như chat hàng ngày

Ví dụ phong cách:
"Ừm, em hiểu rồi! Anh đừng lo, em sẽ cố gắng sắp xếp thời gian để gặp anh cuối tuần này. Em cũng nhớ anh lắm đấy 😊"
`

// DefaultLanguage is used when the caller does not name one.
const DefaultLanguage = "vi"

// IsEnglish reports whether lang is an English BCP 47 tag ("en", "en-US").
// Anything else, including unparsable input, is treated as Vietnamese.
func IsEnglish(lang string) bool {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	english, _ := language.English.Base()
	return base == english
}

// NarrativeInstruction returns the response-style block appended to the
// system prompt for a category and user language.
func NarrativeInstruction(category Category, lang string) string {
	english := IsEnglish(lang)
	switch {
	case category == CategoryLong && english:
		return longEnglish
	case category == CategoryLong:
		return longVietnamese
	case english:
		return shortEnglish
	default:
		return shortVietnamese
	}
}
