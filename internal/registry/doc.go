// Package registry keeps the durable list of message queue names created by
// mqreg.
//
// The kernel offers no way to enumerate POSIX message queues, so the tool
// records every queue it creates as one line in a plain text file. Appends
// go straight to the end of the file. Removals stream the file through an
// Editor that writes the surviving lines to a shadow copy and renames it over
// the original, so readers only ever observe the old or the new content.
//
// Which lines an edit removes is decided by a Pattern that selects candidate
// lines and a Policy that decides each candidate: DropMatched removes them
// outright, DropIf removes a line only when an external action such as a
// queue unlink succeeds.
package registry
