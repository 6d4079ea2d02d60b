// Package sms sends text messages through an HTTP gateway, normalizing
// destination numbers to E.164-like form for the deployment region. When no
// gateway is configured the channel degrades to a silent no-op.
package sms
