// Package cli provides the abdata command-line interface.
//
// # Overview
//
// This package implements the `abdata` CLI for working with the AB DATA
// backend from a terminal: log in, upload datasets, list and delete files,
// download reports and show the dashboard counters. The saved token lives
// in ~/.config/abdata/credentials.json and is shared by all commands.
//
// # Commands
//
// login: Log in and save the token
//
//	abdata login \
//		--username alice \
//		--password secret \
//		--backend http://localhost:8000
//
// upload: Upload a dataset file
//
//	abdata upload --file ./harvest-2025.csv
//
// files: List uploaded files, or delete one
//
//	abdata files
//	abdata files --delete 42
//
// reports: List reports, or download one
//
//	abdata reports
//	abdata reports --download 7 --out ./yield-report.pdf
//
// stats: Show the dashboard counters
//
//	abdata stats
//
// logout: Discard the saved token
//
//	abdata logout
package cli
