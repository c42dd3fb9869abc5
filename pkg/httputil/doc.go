// Package httputil provides the retry policy shared by registry clients.
//
// A request is retried only when it fails with a [TransientError]. Registry
// clients produce one for connection failures, 5xx responses, and 429
// rate limiting; anything else (a 404, a body that does not decode) is
// returned on the first attempt:
//
//	err := httputil.DefaultPolicy.Do(ctx, func() error {
//	    return fetch(ctx)
//	})
//
// The wait between attempts doubles each time. A Retry-After header, read
// with [RetryAfter], lengthens the next wait but never past
// [Policy].MaxDelay.
//
// Registry responses are never cached; every query observes the registry
// as it is at that moment.
package httputil
