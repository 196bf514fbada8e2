package bot

import "fmt"

// Command names
const (
	CommandStart = "start"
	CommandHelp  = "help"
)

const helpText = "📚 How to use:\n\n" +
	"1. Send me any YouTube video link\n" +
	"2. Wait while I download the audio\n" +
	"3. Receive your audio file!\n\n" +
	"Example:\n" +
	"https://youtube.com/watch?v=...\n" +
	"https://youtu.be/...\n\n" +
	"⚠️ Note: Large files may take longer to process."

const notYouTubeText = "❌ This doesn't look like a YouTube link.\n" +
	"Please send a valid YouTube URL."

const (
	processingText = "📥 Processing your request..."
	fetchingText   = "🔍 Fetching video information..."
)

func welcomeText(firstName string) string {
	return fmt.Sprintf("👋 Hi %s!\n\n", firstName) +
		"🎵 I'm a YouTube Audio Downloader Bot.\n\n" +
		"📝 Just send me a YouTube link and I'll download the audio for you!\n\n" +
		"Commands:\n" +
		"/start - Show this message\n" +
		"/help - Show help"
}

func downloadingText(title, author, clock string) string {
	return fmt.Sprintf("📺 Video: %s\n👤 Author: %s\n⏱ Duration: %s\n\n⬇️ Downloading audio...", title, author, clock)
}

func uploadingText(title string, sizeMB float64) string {
	return fmt.Sprintf("📺 %s\n📦 Size: %.2f MB\n\n📤 Uploading to Telegram...", title, sizeMB)
}

func errorText(err error) string {
	return fmt.Sprintf("❌ Error occurred:\n%s\n\nPlease try again or send a different link.", err)
}
