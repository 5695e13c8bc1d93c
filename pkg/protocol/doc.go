// Package protocol implements the binary wire protocol between live
// output channels and sinks.
//
// A producer opens a connection to a sink, announces each display with
// a Create frame carrying the serialized document, and then streams
// Replace or Patches frames addressed by display id. The sink answers
// each sequenced frame with an Ack.
//
// # Wire Format
//
// All messages are framed with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameCreate (0x01): announce a display with its initial document
//   - FrameReplace (0x02): replace a display's document wholesale
//   - FramePatches (0x03): apply a patch list to a display's document
//   - FrameAck (0x04): sink acknowledgment of a sequenced frame
//   - FrameControl (0x05): ping/pong/close
//   - FrameError (0x06): error report
//
// # Encoding
//
// Varints (protobuf-style) for counts and sequence numbers, ZigZag for
// signed values, length-prefixed strings and byte blobs, big-endian for
// fixed-width integers. Documents travel as the JSON encoding produced
// by vdom.Serialize; patches travel in a compact binary form with typed
// scalar values.
//
// Decoding enforces allocation, collection, and depth limits so a
// malicious peer cannot drive memory or stack growth with forged
// length prefixes.
package protocol
