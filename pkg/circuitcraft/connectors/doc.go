/*
Package connectors provides the built-in node handlers and the connector
catalog.

# Handlers

NewRegistry returns a circuitcraft.Registry with a handler for every
built-in node type:

	http-request     calls an HTTP API; outputs {status, statusText, data, headers, url, method}
	display-data     tags its input with a format; outputs {format, data, displayedAt, message}
	filter           passes list input through unchanged
	transform        applies ordered mapping rules (see ApplyMapping)
	if-condition     evaluates a condition; outputs a circuitcraft.ConditionResult
	delay            waits config.delay milliseconds (at most 300000)
	webhook, webhook-trigger, manual-trigger
	                 output the run's trigger payload or config.payload

Types without a handler, email included, fall back to
circuitcraft.PassThrough.

	reg := connectors.NewRegistry(
	    connectors.WithHTTPClient(client),
	    connectors.WithDefaultHTTPTimeout(10*time.Second),
	)
	report := circuitcraft.NewExecutor(reg).Run(ctx, wf)

# Errors

Handler failures are *Error values. Their message is the connector prefix
followed by the cause, for example

	Display error: No data provided to display
	HTTP request failed: HTTP 404 Not Found: Request failed

The typed cause (errors.ValidationError, errors.NetworkError,
errors.TimeoutError) is reachable with errors.As, so callers can inspect
the kind or retry category of a failure.

# Retries

An http-request node with config.retries > 0 retries connection
failures, timeouts, 429 and 5xx responses with exponential backoff. The
backoff comes from WithRetryPolicy.

# Catalog

Catalog describes every built-in type: name, category, ports and config
schema. ValidateConfig checks a node's config against that schema and
reports every problem, joined.
*/
package connectors
