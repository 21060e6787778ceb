package entities

import "strings"

// BackgroundFrame is the most recent encoded camera frame reported by the
// runtime. It is the base64 body of a data URL, without the media prefix.
type BackgroundFrame string

// FrameFromDataURL strips everything up to and including the first comma of
// a data URL. A string without a comma is kept whole.
func FrameFromDataURL(dataURL string) BackgroundFrame {
	if i := strings.IndexByte(dataURL, ','); i >= 0 {
		return BackgroundFrame(dataURL[i+1:])
	}
	return BackgroundFrame(dataURL)
}
