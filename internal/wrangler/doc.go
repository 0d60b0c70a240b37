// Package wrangler invokes the external key-value store command.
//
// A [Bridge] turns a namespace identity plus an [Op] ([ListOp], [GetOp],
// [PutOp], [DeleteOp]) into a command line of the shape
//
//	<executable> <subcommand...> <action> [key] [value] [--prefix P]
//	    [--metadata JSON] [--expiration EPOCH] [--path FILE]
//	    (--namespace-id ID | --binding NAME) [--preview [false]] [--local]
//
// runs it with stdout and stderr fully buffered, and returns stdout. Every
// invocation is written to the context journal (see log.Journal).
//
// # Failure Policy
//
// A non-zero exit status fails the call with a [*StoreCommandFailedError].
// Stderr output on a successful exit is only journaled: the store command
// prints deprecation notices and update hints there.
//
// # List Responses
//
// [ParseList] accepts both a bare JSON array and an object wrapping the array
// under "keys". Anything else is a [*MalformedListResponseError].
package wrangler
