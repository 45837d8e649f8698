/*
Package ddns keeps one DNS record in sync with the public IP address of the host.

Usage will always start with [ddns.New],
which validates the [Credentials] and returns a [Client].
Each call to [Client.Reconcile] reads the record from the [Provider],
asks the [Resolver] for the public IP,
and rewrites the record content only when the two differ.

There is no scheduler: run the program from a timer such as cron or a systemd timer.
Additional client configuration options are listed in the docs for New.
*/
package ddns
