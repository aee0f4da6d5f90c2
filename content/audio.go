package content

import "fmt"

// formatToMIME is the canonical format -> MIME mapping used when a Part
// needs to be described to a transport that wants a MIME type. Mulaw and
// Alaw both encode to "audio/basic"; decode only ever recovers Mulaw, so
// the Alaw direction is one-way.
var formatToMIME = map[AudioFormat]string{
	AudioFormatWAV:      "audio/wav",
	AudioFormatMP3:      "audio/mpeg",
	AudioFormatLinear16: "audio/l16",
	AudioFormatFLAC:     "audio/flac",
	AudioFormatMulaw:    "audio/basic",
	AudioFormatAlaw:     "audio/basic",
	AudioFormatAAC:      "audio/aac",
	AudioFormatOpus:     "audio/opus",
}

// mimeToFormat is the decode-side mapping. "audio/basic" decodes only to
// Mulaw: Alaw collides into the same MIME type on encode but is never
// recovered by decode.
var mimeToFormat = map[string]AudioFormat{
	"audio/wav":   AudioFormatWAV,
	"audio/mpeg":  AudioFormatMP3,
	"audio/l16":   AudioFormatLinear16,
	"audio/flac":  AudioFormatFLAC,
	"audio/basic": AudioFormatMulaw,
	"audio/aac":   AudioFormatAAC,
	"audio/opus":  AudioFormatOpus,
}

// FormatToMIME returns the canonical MIME type for a format.
func FormatToMIME(f AudioFormat) (string, error) {
	mime, ok := formatToMIME[f]
	if !ok {
		return "", fmt.Errorf("no MIME type known for audio format %q", f)
	}
	return mime, nil
}

// MIMEToFormat decodes a MIME type into an AudioFormat. Unknown MIME types
// are an invariant violation; the caller is expected to tag the error with
// the provider id per the content model's error-reporting convention.
func MIMEToFormat(mime string) (AudioFormat, error) {
	format, ok := mimeToFormat[mime]
	if !ok {
		return "", fmt.Errorf("unrecognized audio MIME type %q", mime)
	}
	return format, nil
}
