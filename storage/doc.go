// Package storage is the temporary upload spool.
//
// Uploaded audio is written here before it is forwarded upstream, and
// deleted right after. The local backend keeps files under
// Config.BasePath ("uploads" by default); Component creates the directory
// at startup and clears files abandoned by a previous run.
//
//	storage:
//	  provider: local
//	  base_path: uploads
//	  sweep_after: 1h
package storage
