package skill

// nameIndexQueryRange builds the ZRANGEBYLEX bounds for query_user: every
// member whose text starts with query, inclusive of query itself.
func nameIndexQueryRange(query string) (min, max string) {
	return "[" + query, "(" + query + "\x7f"
}

// nameIndexPrefixRange builds the bounds for the create_user existence
// check: every member of the form "{name}:{anything}".
func nameIndexPrefixRange(name string) (min, max string) {
	return "[" + name + ":", "(" + name + ":\x7f"
}
