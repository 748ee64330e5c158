// Package server exposes scoring, report intake and the admin API over HTTP.
//
// Routes:
//
//	GET  /health                    liveness with server time
//	POST /score                     score one URL with optional link text
//	POST /report                    accept a user report
//	POST /scan                      score every link of a submitted page
//	GET  /admin/api/reports         most recent reports
//	GET  /admin/api/report/{id}     one report
//	GET  /admin/api/digests         stored digest artifacts
//	GET  /admin/api/digest/{name}   raw digest artifact
//	GET  /metrics                   Prometheus metrics
//
// CORS is open to every origin so the browser extension can call /score and
// /report from any page.
package server
