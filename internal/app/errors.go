package app

import (
	"fmt"

	"log-analyzer/internal/shared/svcerrors"
)

const (
	codeNoLogFile           = "RUN_1000"
	codeReportAlreadyExists = "RUN_1001"

	codeRunInterrupted = "RUN_2000"

	codeInternalLogDiscoveryFailed = "RUN_9000"
	codeInternalReportCheckFailed  = "RUN_9001"
	codeInternalLogOpenFailed      = "RUN_9002"
	codeInternalReportRenderFailed = "RUN_9003"
	codeInternalReportStoreFailed  = "RUN_9004"
)

// errNoLogFile returns an error when the log directory holds no dated access log.
func errNoLogFile(cause error) *svcerrors.ServiceError {
	return svcerrors.NewSkippedError(codeNoLogFile, "no log file to analyze", cause)
}

// errReportAlreadyExists returns an error when the latest log has been reported already.
func errReportAlreadyExists(cause error) *svcerrors.ServiceError {
	return svcerrors.NewSkippedError(codeReportAlreadyExists, "report already exists", cause)
}

// errRunInterrupted returns an error when the run is cancelled outside of the aggregation pass.
func errRunInterrupted(cause error) *svcerrors.ServiceError {
	return svcerrors.NewAbortedError(codeRunInterrupted, "run interrupted", cause)
}

func errInternalLogDiscoveryFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalLogDiscoveryFailed, fmt.Errorf("logDiscoveryFailed: %w", cause))
}

func errInternalReportCheckFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalReportCheckFailed, fmt.Errorf("reportCheckFailed: %w", cause))
}

func errInternalLogOpenFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalLogOpenFailed, fmt.Errorf("logOpenFailed: %w", cause))
}

func errInternalReportRenderFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalReportRenderFailed, fmt.Errorf("reportRenderFailed: %w", cause))
}

func errInternalReportStoreFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalReportStoreFailed, fmt.Errorf("reportStoreFailed: %w", cause))
}
