/*
Package httpserver runs the MACI sign-up relayer.

It mounts the enrollment API from api/enrollmenthandler behind the
go-utils request logger and adds the operational endpoints:

	GET /livez     always 200 while the process is up
	GET /readyz    200 while ready, 503 while draining
	GET /drain     mark the server not ready
	GET /undrain   mark the server ready again
	/debug/*       pprof, when enabled

Metrics are served by a separate metrics.MetricsServer on its own address.

# Usage

	metricsSrv, err := metrics.New(cfg.MetricsAddr)
	service := enrollment.NewService(registries, nil, log).WithMetrics(metricsSrv.SignUps())
	handler := enrollmenthandler.NewHandler(service, log).WithSigner(auth)

	srv, err := httpserver.New(cfg, handler, metricsSrv)
	srv.RunInBackground()
	defer srv.Shutdown()

Shutdown first flips readiness and waits DrainDuration so load balancers stop
routing to the instance, then stops both servers within GracefulShutdownDuration.
*/
package httpserver
