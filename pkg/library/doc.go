// Package library manages a shared playbook-module repository cloned into
// the workspace.
//
// Teams keep reusable playbook fragments (step sequences, guardrail
// preambles, vendor-specific prompt blocks) in a Git repository. The library
// checks that repository out under the workspace root so the include
// resolver can reach the modules without widening its confinement rules,
// keeps the checkout current by pulling, and can poll for upstream changes.
//
// Basic usage:
//
//	lib, err := library.NewLibrary(workspace, &cfg.Library)
//	if err != nil {
//		return err
//	}
//	if _, err := lib.Sync(ctx); err != nil {
//		return err
//	}
//
// When polling is enabled, a Poller pulls on an interval and invokes a
// callback with the module files each sync changed:
//
//	poller := library.NewPoller(lib, cfg.Library.Poll.Interval, onChange)
//	if err := poller.Start(ctx); err != nil {
//		return err
//	}
//	defer poller.Stop()
//
// Authentication supports personal access tokens over HTTPS, SSH keys, and
// anonymous access for public or local repositories.
package library
