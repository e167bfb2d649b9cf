// Package resilience groups the fault tolerance helpers used by the REST
// client and the payload stores.
//
//   - circuitbreaker: sony/gobreaker wrappers for REST calls and SQL access
//   - retry: exponential backoff with jitter for transient failures
//
// The REST client nests them so that one breaker call covers all attempts:
//
//	cb := circuitbreaker.New(circuitbreaker.RESTConfig())
//	p, err := circuitbreaker.Run(cb, func() (model.Payload, error) {
//	    return retry.Do(ctx, retry.RESTConfig(), func() (model.Payload, error) {
//	        return fetch(ctx)
//	    })
//	})
package resilience
