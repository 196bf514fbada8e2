package bot

// Package bot is a Telegram front end that replies to YouTube links with the
// audio track of the linked video. Updates are handled one at a time.
