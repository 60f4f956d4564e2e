// Package archive talks to the PMJDY archive website.
//
// The archive is an ASP.NET WebForms page. A report for a given week is not
// addressable by URL: the browser GETs the landing page, which carries the
// hidden form state (__VIEWSTATE, __EVENTVALIDATION, ...) and a session
// cookie, and then POSTs the whole form back with the date field changed.
// Client reproduces that exchange.
//
// # Usage
//
//	client, err := archive.NewClient(cfg.ArchiveURL,
//	    archive.WithUserAgent(cfg.UserAgent),
//	    archive.WithTimeout(cfg.Timeout),
//	)
//	landing, session, err := client.FetchFormState(ctx)
//	page, err := client.FetchPage(ctx, date, session)
//
// The Client never mutates the FormSession it is given; each FetchPage builds
// its own request payload.
package archive
