// Package publisher walks the remote archive and turns every talk directory
// into an uploaded package.
//
// Items are processed one at a time, in listing order:
//
//	list files -> metadata -> thumbnail -> classify -> metadata.xml -> zip
//	           -> mirror (optional) -> upload -> cleanup
//
// A skipped or failed item never stops the run. Only a *remote.Error that
// survives the transfer client's reconnect, or a cancelled context, ends
// Publish early.
package publisher
