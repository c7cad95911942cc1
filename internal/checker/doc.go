// Package checker implements the individual website-compliance checks.
//
// Architecture overview:
//
//   - Checkers implement the Checker interface (Check + Name). Each one
//     inspects a single aspect of the target and always returns exactly one
//     scan.Result; network and parsing faults become error results.
//   - New is the fixed dispatch table from scan.CheckName to checker. Adding
//     a check means extending the enumeration in internal/domain/scan and the
//     registry here.
//   - Content checks (fonts, prefetching, analytics, cdn, social, cookies)
//     each fetch the target page on their own through fetchPage, which parses
//     the HTML once with golang.org/x/net/html. No state is shared between
//     checkers.
//   - Third-party classification compares registrable domains using the
//     public suffix list, so www.example.com and static.example.com count as
//     first party for example.com.
package checker
