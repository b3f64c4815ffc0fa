// Package media holds the decoded-media data model (sample buffers and frame
// pixel buffers) plus the decode collaborator boundaries. The built-in WAV
// decoder and the ffmpeg-backed implementations live here; anything fancier is
// an external collaborator's job.
package media
