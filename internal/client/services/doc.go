// Package services contains application services for the gophbudget client.
// Every mutation goes to the local store first and then asks the sync engine
// to schedule a pass, so the CLI works the same online and offline.
package services
