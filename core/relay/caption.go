package relay

import (
	"fmt"
	"strings"
	"time"

	"github.com/akademflow/backend/core"
)

const (
	maxSlugLen      = 50
	timestampLayout = "2006-01-02 15:04"

	captionTemplate = "📁 <b>Yangi fayl yuklandi</b>\n" +
		"👤 <b>Talaba:</b> %s\n" +
		"🎓 <b>Bosqich:</b> %s\n" +
		"🔖 <b>Yo‘nalish:</b> %s\n" +
		"📝 <b>Fayl turi:</b> %s\n" +
		"📅 <b>Sana:</b> %s\n\n" +
		"%s"
)

var (
	slugSeparators = strings.NewReplacer(
		"’", " ", "‘", " ", "'", " ", "ʻ", " ", "ʼ", " ", "`", " ", "“", " ", "”", " ",
		".", " ", ",", " ", ":", " ", ";", " ", "!", " ", "?", " ",
		"(", " ", ")", " ", "[", " ", "]", " ", "{", " ", "}", " ",
		"/", " ", "\\", " ", "|", " ", "+", " ", "=", " ", "&", " ",
		"%", " ", "$", " ", "#", " ", "@", " ", "^", " ", "*", " ", "\"", " ",
		"—", " ", "-", " ",
	)

	// "ma'lumotnoma" is spelled with several apostrophes; all of them slug to the same tag.
	fileTypeAliases = strings.NewReplacer(
		"ma'lumotnoma", "malumotnoma",
		"maʼlumotnoma", "malumotnoma",
		"ma`lumotnoma", "malumotnoma",
		"ma’lumotnoma", "malumotnoma",
	)

	// Telegram's HTML parse mode only requires these three to be escaped.
	htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// Slugify lower-cases `text`, turns punctuation and dashes into separators and joins the remaining
// words with underscores. The result is at most 50 characters long.
func Slugify(text string) string {
	t := slugSeparators.Replace(strings.ToLower(text))
	slug := strings.Join(strings.Fields(t), "_")
	if r := []rune(slug); len(r) > maxSlugLen {
		slug = string(r[:maxSlugLen])
	}
	return slug
}

func hashtag(text string) string {
	if slug := Slugify(text); slug != "" {
		return "#" + slug
	}
	return ""
}

// HashtagForFileType returns the hashtag of a document type, e.g. "#malumotnoma" for "Ma'lumotnoma".
func HashtagForFileType(fileType string) string {
	return hashtag(fileTypeAliases.Replace(strings.ToLower(strings.TrimSpace(fileType))))
}

// Hashtags returns the file type, stage and field tags, in that order and without duplicates.
func Hashtags(stage core.StageID, field, fileType string) []string {
	tags := make([]string, 0, 3)
	for _, tag := range []string{HashtagForFileType(fileType), hashtag(string(stage)), hashtag(field)} {
		if tag == "" || contains(tags, tag) {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// Compose builds the HTML caption of an uploaded document.
func Compose(stage core.StageID, field, fileType, submitter string, ts time.Time) string {
	return fmt.Sprintf(captionTemplate,
		htmlEscaper.Replace(submitter),
		htmlEscaper.Replace(string(stage)),
		htmlEscaper.Replace(field),
		htmlEscaper.Replace(fileType),
		ts.Format(timestampLayout),
		htmlEscaper.Replace(strings.Join(Hashtags(stage, field, fileType), " ")),
	)
}

func contains(vals []string, v string) bool {
	for _, val := range vals {
		if val == v {
			return true
		}
	}
	return false
}
