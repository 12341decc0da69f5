// Package storage provides persistent storage for the lunch bot.
// It uses BadgerDB as the embedded database and holds the user registry
// and the journal of fired reminders. Open orders and outings are kept
// in memory only and are lost on restart.
package storage
