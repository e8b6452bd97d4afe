//Package osc implements the Open Sound Control 1.0 wire protocol: encoding
//and decoding of typed messages and time-stamped recursive bundles, plus a
//minimal datagram transport with a poll-driven client and server.
//
//This implementation is based on the Open Sound Control 1.0 Specification
//(http://opensoundcontrol.org/spec-1_0.html).
//
//Open Sound Control (OSC) is an open, transport-independent, message-based
//protocol developed for communication among computers, sound synthesizers,
//and other multimedia devices.
//
//Messages
//
//A Message carries an address pattern, a comma-prefixed type tag string and
//one argument per tag character. Supported argument tags:
//
//	'i' (int32)
//	'f' (float32)
//	's' (string)
//	'b' ([]byte)
//	'h' (int64)
//	'd' (float64)
//	't' (Timetag)
//
//The fixed-width tags 'c', 'r' and 'm' are accepted on decode (each consumes
//exactly four bytes) but produce no argument; 'S' decodes like 's'.
//
//Bundles
//
//A Bundle consists of an OSC Timetag followed by zero or more bundle
//elements. Each element can be another bundle (note this recursive
//definition: a bundle may contain bundles) or a message. On the wire all
//messages of a bundle are emitted before its nested bundles.
//
//Usage
//
//OSC client example:
//  client, err := osc.Dial("localhost:8765")
//  msg := osc.NewMessage("/osc/address")
//  msg.AppendInt32(111)
//  msg.AppendString("hello")
//  client.SendMessage(msg)
//
//OSC server example:
//  server, err := osc.Listen("127.0.0.1:8765")
//  server.SetMessageHandler(func(msg *osc.Message) {
//      fmt.Println(msg)
//  })
//  for {
//      server.ProcessAll()
//      time.Sleep(10 * time.Millisecond)
//  }
package osc
