/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package logtest provides a log.FieldLogger that records entries in memory,
// so tests can assert which messages were logged and with which fields.
package logtest
