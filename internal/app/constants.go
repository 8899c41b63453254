package app

// FirstDealSize is the number of cards dealt before the grand tichu window.
// Keep this centralized so tests or local runs can adjust the rule without
// touching multiple call sites.
const FirstDealSize = 8

// FullHandSize is the complete hand after the second deal.
const FullHandSize = 14
