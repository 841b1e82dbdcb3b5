// Package loader loads the cleaned artifacts into the star schema.
//
// A load run executes the schema script, reads the five artifacts, and then
// works in two phases. Dimensions come first: country, vaccine and disease
// rows are unioned from their source artifacts, deduplicated, persisted so
// the store assigns surrogate ids, and read back into a KeyMap from natural
// key to id. Facts follow: every fact row gets one foreign key column per
// KeyMap lookup, where a miss is NULL and never drops the row, and is then
// trimmed to exactly the destination columns and appended.
//
// The vaccine_introduction fact keeps vaccine_id NULL. Its source identifies
// vaccines by free-text description, which does not match the vaccine
// dimension codes.
package loader
