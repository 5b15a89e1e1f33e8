// Package ffmpeg builds the FFmpeg invocation used for relay workers.
package ffmpeg

// Relay encoding profile. These are constants of this build, not per-feed
// settings: every worker transcodes to baseline H.264 at a capped 2 Mbit/s
// with low-latency options suitable for RTMP ingest.
const (
	videoCodec       = "libx264"
	videoPreset      = "ultrafast"
	videoTune        = "zerolatency"
	videoProfile     = "baseline"
	videoMaxRate     = "2000k"
	videoBufferSize  = "2000k"
	pixelFormat      = "yuv420p"
	keyframeInterval = "30"
	audioCodec       = "aac"
	audioSampleRate  = "44100"
	audioBitrate     = "128k"
)

// RelayArgs returns the argument list for relaying an RTSP source to an RTMP
// destination. The binary name itself is not included.
func RelayArgs(sourceURL, destinationURL string) []string {
	return []string{
		"-fflags", "nobuffer", // reduce latency
		"-rtsp_transport", "tcp",
		"-i", sourceURL,
		"-c:v", videoCodec,
		"-preset", videoPreset,
		"-tune", videoTune,
		"-profile:v", videoProfile,
		"-bufsize", videoBufferSize,
		"-maxrate", videoMaxRate,
		"-pix_fmt", pixelFormat,
		"-g", keyframeInterval,
		"-c:a", audioCodec,
		"-ar", audioSampleRate,
		"-b:a", audioBitrate,
		"-f", "flv",
		"-flvflags", "no_duration_filesize",
		destinationURL,
	}
}
