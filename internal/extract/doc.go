// Package extract finds contact signals in page text and documents.
//
// Every extractor is a pure function: it reads its input and returns
// candidates without touching shared state, so pages can be processed
// concurrently by several crawl workers.
//
//   - Emails: local@domain matches, at most 320 characters, dotted domain
//   - PhoneNumbers: three candidate patterns, validated with libphonenumber
//     metadata and rendered in international format; numbers that fail
//     validation are still accepted verbatim when they carry 10+ digits
//   - Names: schema.org Person names, short capitalized headings and
//     card headers
//   - LinkedInProfiles: /in/ and /company/ URLs from anchors and text
//   - JobTitles: seniority word followed by a function word
//
// The Card* helpers apply the same rules to a single card-like element and
// are used by the associate package.
package extract
