// Package associate groups the contact values found on a page into
// ContactRecords.
//
// Card-like containers (elements whose class mentions team, member, staff,
// person, profile or card) are the only source of real association: the
// first email, phone and personal LinkedIn URL inside a card are bundled
// with the card's header as name and its first title-looking text. Values
// consumed by a card are removed from the page-level candidates. Whatever
// remains becomes a single-channel record, with a name guessed from the
// email local part or the LinkedIn slug when possible.
package associate
