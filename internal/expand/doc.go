/*
Package expand inlines user-defined template functions.

A template may start with function definitions placed between the prologue
and the query:

	ex:knows(?a, ?b) {
	  ?a foaf:knows ?b .
	}

	SELECT * WHERE { ex:knows(?x, ex:bob) }

Each call of a defined function is replaced by the text of the function body.
Parameters are bound by position, so the call above becomes
`?x foaf:knows ex:bob .`. Local variables of the body whose names already
appear in the query are renamed to name_1, name_2 and so on, keeping the
body's variables apart from the caller's.

Expansion works on source text: a pass parses the text, computes the
replacement of every call site from recorded offsets and splices the results
in. Bodies may call other functions, so ExpandAll repeats passes until no call
is left and then deletes the definitions.
*/
package expand
