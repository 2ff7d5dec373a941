// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

/*
Package supervisor runs the long-lived parts of the serve command under a
suture supervisor tree.

Tree layout:

	fashionrec (root)
	├── data-layer
	│   └── catalog-probe      periodic catalog ping, exported as fashionrec_catalog_up
	└── api-layer
	    └── http-server        lookup API

A service that returns an error is restarted with suture's backoff. Context
cancellation (SIGINT/SIGTERM in cmd/fashionrec) stops every service, giving
the HTTP server ShutdownTimeout to drain connections.

Supervisor events are logged through sutureslog into the zerolog logger
(see logging.NewSlogLogger).
*/
package supervisor
