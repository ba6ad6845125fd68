// Package language normalizes the localization language identifiers used by
// the host game: short pack codes ("JP"), locale folders ("jp-jp"), the
// three-letter codes embedded in translation-effect markup ("jpn"), and
// human-readable names.
package language
