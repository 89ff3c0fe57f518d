// Package applogging is a process-wide logging facility built on
// rs/zerolog: named categories that can be switched on and off, a
// severity filter compiled into a rule document, and a rotating file
// sink.
//
// Key features
//   - Categories registered from package-level variables, enabled by default
//   - Built-in Core and trace-only CoreTrace categories
//   - SetFilterRulesByLevel compiles the enabled categories and a minimum
//     level into "<pattern>.<level>=<true|false>" rules
//   - One locked dispatch path: no interleaved lines, size-based rotation
//     checked before every file write
//   - Output to the system channel (stderr), a file, both or neither
//   - Fatal records terminate the process after they are written
//
// Typical usage
//
//	var netLog = applogging.RegisterCategory("net")
//
//	func main() {
//		logs := applogging.Instance()
//		logs.InstallHandler()
//		if err := logs.SetOutputDest(applogging.DestSystem | applogging.DestFile); err != nil {
//			panic(err)
//		}
//		logs.SetFilterRulesByLevel(applogging.InfoLevel)
//
//		netLog.InfoWith().Msgf("listening on %s", addr)
//	}
//
// Lines look like
//
//	[20240501 9:12:44.031 I] server.go:42 - listening on :8080
//
// Log files are named <yyyyMMdd_HHmmss_><appname>(<pid>).txt, or
// <yyyyMMdd_HHmmss_><hint> after SetLogFilePath, under
// <exe-dir>/log/<yyyy_MM> unless a directory is set.
package applogging
