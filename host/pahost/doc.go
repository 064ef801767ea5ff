// SPDX-License-Identifier: EPL-2.0

// Package pahost is a threaded audio host on PortAudio
// (github.com/gordonklaus/portaudio). PortAudio invokes the stream callback
// on its own real-time thread with a typed, interleaved slice, which is
// passed straight to the fill function.
//
// PortAudio needs cgo and the native library, so the implementation is only
// compiled with the "portaudio" build tag. Without it, Host reports
// host.ErrNoDevice.
package pahost
