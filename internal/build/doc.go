// Package build runs the site pipeline for one configuration.
//
// A build moves through four stages: discover (classify sources and start
// conversions), render (assemble pages and prepare assets concurrently),
// finalize (minify generated HTML) and publish (replace the deployment
// directory). The deployment directory is untouched unless every stage before
// publish succeeded.
//
// After publishing, an optional JSON report and a NATS publication notice are
// produced. Their failures are reported as warnings on the Result; the site is
// already live at that point.
package build
