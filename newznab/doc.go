// Package newznab provides a client for Newznab-style indexer APIs.
//
// Newznab indexers expose search, capability, detail, download and NFO
// endpoints behind a single URL. Every call is an HTTP GET whose "t" query
// parameter selects the function, authenticated with an "apikey" parameter.
// Responses are XML: an RSS document for search and details, a <caps>
// document for the category taxonomy, and an <error code="" description="">
// document when the indexer rejects a request.
//
// # Architecture
//
//   - Client: owns the endpoint, API key and HTTP client; injects the key
//     into every request and optionally echoes requests and responses
//   - Document: a response parsed once, with its root element recorded so
//     callers can branch on result versus error
//   - Typed extraction: Search, Details and Categories decode the expected
//     shape and fail with MalformedResponseError when required parts are
//     missing
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := newznab.NewClient(
//		"https://indexer.example.com/api",
//		"your-api-key",
//		logger,
//		newznab.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	items, err := client.Search(ctx, newznab.SearchOptions{
//		Query:      "ubuntu",
//		Categories: []string{"4000"},
//	})
//
// # Error Handling
//
// Indexer-reported failures are returned as *APIError and are application
// level conditions, not faults:
//
//	var apiErr *newznab.APIError
//	if errors.As(err, &apiErr) {
//		fmt.Printf("Error %s: %s\n", apiErr.Code, apiErr.Description)
//	}
//
// Network failures are *TransportError and unparseable bodies are
// *MalformedResponseError (errors.Is(err, ErrMalformedResponse)).
package newznab
