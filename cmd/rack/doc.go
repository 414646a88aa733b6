// Command rack is the operator CLI for the rack storage daemon. It talks
// to rackd over the Unix socket IPC and can launch the daemon itself.
package main
