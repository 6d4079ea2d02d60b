// Package realtime tracks live user connections and routes per-user events
// to them. Connections authenticate with a bearer token at connect time; a
// user may hold any number of simultaneous connections, and events broadcast
// to all of them. Transport integration (WebSocket, SSE) lives with the
// consumer: it calls Connect, reads from Conn.Receive and calls Disconnect
// when the transport closes.
package realtime
