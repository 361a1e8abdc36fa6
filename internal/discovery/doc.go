// Package discovery provides mDNS service discovery for Android Lens.
//
// A running dashboard (`androidlens serve --advertise`) announces itself as
// "_androidlens._tcp". Device-info backends that want to be found announce
// "_androidlens-api._tcp". `androidlens scan` browses for both.
//
// # Discovery Process
//
//  1. Broadcasts mDNS queries for each requested service type
//  2. Collects answers until the timeout expires
//  3. Drops answers without an address and duplicate instances
//  4. Returns the services sorted by kind and instance name
//
// # Usage Example
//
//	services, err := discovery.NewScanner().Scan(ctx, discovery.KindDashboard, discovery.KindAPI)
//	if err != nil {
//	    return err
//	}
//	for _, s := range services {
//	    fmt.Printf("%s %s at %s\n", s.Kind, s.Instance, s.URL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Peers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
