// Package adscore implements the AMS/TCP wire codec, the ADS error and
// command enumerations, the index-group constants, and the data-type table
// shared by the AMS port and the ADS service.
package adscore

import "fmt"

// Error is an ADS result code. It is a uint32-backed type implementing the
// error interface so callers can classify it with errors.As instead of
// matching on strings.
type Error uint32

const (
	ErrNone                                              Error = 0x000
	ErrInternal                                          Error = 0x001
	ErrNoRTime                                            Error = 0x002
	ErrAllocationLockedMemoryError                        Error = 0x003
	ErrMailboxFullAdsMessageCouldNotBeSent                Error = 0x004
	ErrWrongReceiveHmsg                                   Error = 0x005
	ErrTargetPortNotFound                                 Error = 0x006
	ErrTargetMachineNotFound                              Error = 0x007
	ErrUnknownCommandID                                   Error = 0x008
	ErrInvalidTaskID                                      Error = 0x009
	ErrNoIo                                               Error = 0x00A
	ErrUnknownAmsCommand                                  Error = 0x00B
	ErrWin32Error                                         Error = 0x00C
	ErrPortNotConnected                                   Error = 0x00D
	ErrInvalidAmsLength                                   Error = 0x00E
	ErrInvalidAmsNetID                                    Error = 0x00F
	ErrLowInstallationLevel                               Error = 0x010
	ErrNoDebuggingAvailable                                Error = 0x011
	ErrPortDisabledSystemServiceNotStarted                Error = 0x012
	ErrPortAlreadyConnected                               Error = 0x013
	ErrAmsSyncWin32Error                                  Error = 0x014
	ErrAmsSyncTimeout                                     Error = 0x015
	ErrAmsSyncError                                        Error = 0x016
	ErrAmsSyncNoIndexMap                                  Error = 0x017
	ErrInvalidAmsPort                                     Error = 0x018
	ErrNoMemory                                           Error = 0x019
	ErrTcpSendError                                       Error = 0x01A
	ErrHostUnreachable                                    Error = 0x01B
	ErrInvalidAmsFragment                                 Error = 0x01C
	ErrTlsSendErrorSecureAdsConnectionFailed              Error = 0x01D
	ErrAccessDeniedSecureAdsAccessDenied                  Error = 0x01E

	ErrRouterNoLockedMemory                 Error = 0x500
	ErrRouterNoRegisterMemory                Error = 0x501
	ErrRouterMailboxFull                     Error = 0x502
	ErrRouterDebugMailboxFull                Error = 0x503
	ErrRouterPortTypeUnknown                 Error = 0x504
	ErrRouterNotInitialized                  Error = 0x505
	ErrRouterPortNotRegistered                Error = 0x506
	ErrRouterAlreadyRegistered                Error = 0x507
	ErrRouterNoLockedMemory2                 Error = 0x508
	ErrRouterNoLockedBufferMemory            Error = 0x509
	ErrRouterMailboxFullAlt                  Error = 0x50A
	ErrRouterIsNoLongerPresent                Error = 0x50B
	ErrRouterNotInitialized2                  Error = 0x50C
	ErrRouterPortRemoved                     Error = 0x50D

	ErrGeneralDeviceError             Error = 0x700
	ErrServiceIsNotSupportedByServer  Error = 0x701
	ErrInvalidIndexGroup              Error = 0x702
	ErrInvalidIndexOffset             Error = 0x703
	ErrReadingWritingNotPermitted     Error = 0x704
	ErrParameterSizeNotCorrect        Error = 0x705
	ErrInvalidParameterValueS         Error = 0x706
	ErrDeviceIsNotInAReadyState       Error = 0x707
	ErrDeviceIsBusy                   Error = 0x708
	ErrInvalidOsContextUseMultiTaskDataAccess Error = 0x709
	ErrOutOfMemory                    Error = 0x70A
	ErrInvalidParameterValueS1        Error = 0x70B
	ErrNotFoundFiles                  Error = 0x70C
	ErrSyntaxErrorInCommandOrFile     Error = 0x70D
	ErrObjectsDoNotMatch              Error = 0x70E
	ErrObjectAlreadyExists            Error = 0x70F
	ErrSymbolNotFound                 Error = 0x710
	ErrSymbolVersionInvalidCreateANewHandle Error = 0x711
	ErrServerIsInAnInvalidState       Error = 0x712
	ErrAdsTransModeNotSupported       Error = 0x713
	ErrNotificationHandleIsInvalid    Error = 0x714
	ErrNotificationClientNotRegistered Error = 0x715
	ErrNoMoreNotificationHandles      Error = 0x716
	ErrNotificationSizeTooLarge       Error = 0x717
	ErrDeviceNotInitialized           Error = 0x718
	ErrDeviceHasATimeout              Error = 0x719
	ErrQueryInterfaceFailed           Error = 0x71A
	ErrWrongInterfaceRequired         Error = 0x71B
	ErrClassIDIsInvalid               Error = 0x71C
	ErrObjectIDIsInvalid              Error = 0x71D
	ErrRequestIsPending               Error = 0x71E
	ErrRequestIsAborted               Error = 0x71F
	ErrSignalWarning                  Error = 0x720
	ErrInvalidArrayIndex              Error = 0x721
	ErrSymbolNotActiveReleaseHandleAndTryAgain Error = 0x722
	ErrAccessDenied                   Error = 0x723
	ErrNoLicenseFoundActivateLicense  Error = 0x724
	ErrLicenseExpired                 Error = 0x725
	ErrLicenseExceeded                Error = 0x726
	ErrLicenseInvalid                 Error = 0x727
	ErrLicenseSystemIDIsInvalid       Error = 0x728
	ErrLicenseNoTimeLimit             Error = 0x729
	ErrLicenseFutureIssue             Error = 0x72A
	ErrLicenseTimeToLongOrTooShort    Error = 0x72B
	ErrLicenseInvalidSignature        Error = 0x72C
	ErrLicenseCryptingFaulted         Error = 0x72D
	ErrLicenseNoCrypting              Error = 0x72E
	ErrLicenseNotAllOptionsAreReceived Error = 0x72F
	ErrLicenseExcludedDongle          Error = 0x730
	ErrLicenseSignatureInvalid        Error = 0x731
	ErrLicenseCertificateInvalid      Error = 0x732
	ErrLicenseRequiredCloudLicense    Error = 0x733
	ErrLicenseCloudLicenseNotFoundOrNoAccess Error = 0x734
	ErrInvalidAlignment               Error = 0x735
	ErrLicenseRefused                 Error = 0x736
	ErrLicenseDisabled                Error = 0x737
	ErrGeneralClientError             Error = 0x740
	ErrInvalidParameterAtService      Error = 0x741
	ErrPollingListAlreadyExists       Error = 0x742
	ErrPollingListNotExists           Error = 0x743
	ErrVarAlreadyInAPollingList       Error = 0x744
	ErrVarNotInTheList                Error = 0x745
	ErrPollingResolutionNotSupported  Error = 0x746
	ErrPartitionNotExist              Error = 0x747
	ErrPartitionNotInitialized        Error = 0x748
	ErrDatasetAlreadyExists           Error = 0x749
	ErrPollingGroupIsRefCounted       Error = 0x74A
	ErrPollingGroupAlreadyExists      Error = 0x74B
	ErrInvalidPollingGroupsInterval   Error = 0x74C
	ErrPollingGroupIsStillInUse       Error = 0x74D
	ErrOperationNotFinishedYet        Error = 0x74E
	ErrOperationAborted               Error = 0x74F
	ErrEventIDAlreadyInUse            Error = 0x750
	ErrEventIDNotFound                Error = 0x751
	ErrEventBufferFull                Error = 0x752
	ErrEventSlotNotConnected          Error = 0x753
	ErrEventSlotAlreadyConnected      Error = 0x754
	ErrSyncPortIsLocked               Error = 0x755

	ErrInternalErrorInRealTimeSystem  Error = 0x1000
	ErrTimerValueNotValid             Error = 0x1001
	ErrTaskPointerHasInvalidValueZero Error = 0x1002
	ErrStackPointerHasInvalidValueZero Error = 0x1003
	ErrRequestedTaskStackDataIsTooBig Error = 0x1004
	ErrTaskListIsFull                Error = 0x1005
	ErrNoFreeSemaphores               Error = 0x1006
	ErrVmxNotSupported                Error = 0x1007
	ErrVmxDisabled                    Error = 0x1008
	ErrVmxControlIsLocked             Error = 0x1009
	ErrVmxEnableFailed                Error = 0x100A
	ErrTaskIsNotInTheTaskList         Error = 0x100B
	ErrTaskNameAlreadyExists          Error = 0x100C
	ErrSemaphoreAlreadyOwnedByTask    Error = 0x100D
	ErrInvalidTaskStartPriority       Error = 0x100E
	ErrInsufficientPermission         Error = 0x100F
	ErrExceptionAtSystemStartup       Error = 0x1010
	ErrLicensedNumberOfCoresExceeded  Error = 0x1011
	ErrOversamplingNotSupported       Error = 0x1012
	ErrExtendedStackOverrunDetected   Error = 0x1013
	ErrExtendedStackCheckingNotPossible Error = 0x1014
	ErrRestartBoundaryReached         Error = 0x1015
	ErrCoreOrCpuGroupDoesNotExist     Error = 0x1016
	ErrPlcSystemIsAlreadyInBootstrapMode Error = 0x1017
	ErrPlcSystemIsNotInBootstrapMode Error = 0x1018
	ErrLicensedLevelOfTcBslIsExceeded Error = 0x1019
	ErrActivationOfIntelVtXFailed     Error = 0x101A

	// Unknown is the catch-all sentinel for error codes not present in this
	// table (e.g. future ADS specification additions).
	ErrUnknown Error = 0xFFFFFFFF
)

// FromUint32 performs the total conversion from a wire error code, mapping
// unrecognized codes to ErrUnknown rather than failing.
func FromUint32(code uint32) Error {
	e := Error(code)
	if _, ok := errorStrings[e]; ok {
		return e
	}
	return ErrUnknown
}

func (e Error) Error() string {
	if s, ok := errorStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("unknown ads error (0x%x)", uint32(e))
}

// OK reports whether the error code represents success.
func (e Error) OK() bool {
	return e == ErrNone
}

var errorStrings = map[Error]string{
	ErrNone:                                    "no error",
	ErrInternal:                                "internal error",
	ErrNoRTime:                                 "no real time",
	ErrAllocationLockedMemoryError:             "allocation locked - memory error",
	ErrMailboxFullAdsMessageCouldNotBeSent:     "mailbox full - ads message could not be sent",
	ErrWrongReceiveHmsg:                        "wrong receive hmsg",
	ErrTargetPortNotFound:                      "target port not found, possibly ads server not started",
	ErrTargetMachineNotFound:                   "target machine not found, possibly missing ads routes",
	ErrUnknownCommandID:                        "unknown command id",
	ErrInvalidTaskID:                           "invalid task id",
	ErrNoIo:                                    "no io",
	ErrUnknownAmsCommand:                       "unknown ams command",
	ErrWin32Error:                              "win32 error",
	ErrPortNotConnected:                        "port not connected",
	ErrInvalidAmsLength:                        "invalid ams length",
	ErrInvalidAmsNetID:                         "invalid ams net id",
	ErrLowInstallationLevel:                    "low installation level",
	ErrNoDebuggingAvailable:                    "no debugging available",
	ErrPortDisabledSystemServiceNotStarted:     "port disabled, system service not started",
	ErrPortAlreadyConnected:                    "port already connected",
	ErrAmsSyncWin32Error:                       "ams sync win32 error",
	ErrAmsSyncTimeout:                          "ams sync timeout",
	ErrAmsSyncError:                            "ams sync error",
	ErrAmsSyncNoIndexMap:                       "ams sync, no index map",
	ErrInvalidAmsPort:                          "invalid ams port",
	ErrNoMemory:                                "no memory",
	ErrTcpSendError:                            "tcp send error",
	ErrHostUnreachable:                         "host unreachable",
	ErrInvalidAmsFragment:                      "invalid ams fragment",
	ErrTlsSendErrorSecureAdsConnectionFailed:   "tls send error, secure ads connection failed",
	ErrAccessDeniedSecureAdsAccessDenied:       "access denied, secure ads access denied",

	ErrRouterNoLockedMemory:        "router: no locked memory",
	ErrRouterNoRegisterMemory:      "router: no register memory",
	ErrRouterMailboxFull:           "router: mailbox full",
	ErrRouterDebugMailboxFull:      "router: debug mailbox full",
	ErrRouterPortTypeUnknown:       "router: port type unknown",
	ErrRouterNotInitialized:        "router: not initialized",
	ErrRouterPortNotRegistered:     "router: port not registered",
	ErrRouterAlreadyRegistered:     "router: already registered",
	ErrRouterNoLockedMemory2:       "router: no locked memory",
	ErrRouterNoLockedBufferMemory:  "router: no locked buffer memory",
	ErrRouterMailboxFullAlt:        "router: mailbox full",
	ErrRouterIsNoLongerPresent:     "router: is no longer present",
	ErrRouterNotInitialized2:       "router: not initialized",
	ErrRouterPortRemoved:           "router: port removed",

	ErrGeneralDeviceError:                      "general device error",
	ErrServiceIsNotSupportedByServer:           "service is not supported by server",
	ErrInvalidIndexGroup:                       "invalid index group",
	ErrInvalidIndexOffset:                      "invalid index offset",
	ErrReadingWritingNotPermitted:               "reading/writing not permitted",
	ErrParameterSizeNotCorrect:                 "parameter size not correct",
	ErrInvalidParameterValueS:                  "invalid parameter value(s)",
	ErrDeviceIsNotInAReadyState:                "device is not in a ready state",
	ErrDeviceIsBusy:                            "device is busy",
	ErrInvalidOsContextUseMultiTaskDataAccess:  "invalid os context, use multi-task data access",
	ErrOutOfMemory:                             "out of memory",
	ErrInvalidParameterValueS1:                 "invalid parameter value(s)",
	ErrNotFoundFiles:                           "not found (files, ...)",
	ErrSyntaxErrorInCommandOrFile:              "syntax error in command or file",
	ErrObjectsDoNotMatch:                       "objects do not match",
	ErrObjectAlreadyExists:                     "object already exists",
	ErrSymbolNotFound:                          "symbol not found",
	ErrSymbolVersionInvalidCreateANewHandle:    "symbol version invalid, create a new handle",
	ErrServerIsInAnInvalidState:                "server is in an invalid state",
	ErrAdsTransModeNotSupported:                "ads trans mode not supported",
	ErrNotificationHandleIsInvalid:             "notification handle is invalid",
	ErrNotificationClientNotRegistered:         "notification client not registered",
	ErrNoMoreNotificationHandles:               "no more notification handles",
	ErrNotificationSizeTooLarge:                "notification size too large",
	ErrDeviceNotInitialized:                    "device not initialized",
	ErrDeviceHasATimeout:                       "device has a timeout",
	ErrQueryInterfaceFailed:                    "query interface failed",
	ErrWrongInterfaceRequired:                  "wrong interface required",
	ErrClassIDIsInvalid:                        "class id is invalid",
	ErrObjectIDIsInvalid:                       "object id is invalid",
	ErrRequestIsPending:                        "request is pending",
	ErrRequestIsAborted:                        "request is aborted",
	ErrSignalWarning:                           "signal warning",
	ErrInvalidArrayIndex:                       "invalid array index",
	ErrSymbolNotActiveReleaseHandleAndTryAgain: "symbol not active, release handle and try again",
	ErrAccessDenied:                            "access denied",
	ErrNoLicenseFoundActivateLicense:           "no license found, activate license",
	ErrLicenseExpired:                          "license expired",
	ErrLicenseExceeded:                         "license exceeded",
	ErrLicenseInvalid:                          "license invalid",
	ErrLicenseSystemIDIsInvalid:                "license system id is invalid",
	ErrLicenseNoTimeLimit:                      "license not time limited",
	ErrLicenseFutureIssue:                      "license issue time in the future",
	ErrLicenseTimeToLongOrTooShort:             "license time period too long or too short",
	ErrLicenseInvalidSignature:                 "license invalid signature",
	ErrLicenseCryptingFaulted:                  "license crypting faulted",
	ErrLicenseNoCrypting:                       "license no crypting",
	ErrLicenseNotAllOptionsAreReceived:         "not all options are received",
	ErrLicenseExcludedDongle:                   "license excluded dongle",
	ErrLicenseSignatureInvalid:                 "license signature invalid",
	ErrLicenseCertificateInvalid:               "license certificate invalid",
	ErrLicenseRequiredCloudLicense:             "license requires a cloud license",
	ErrLicenseCloudLicenseNotFoundOrNoAccess:   "cloud license not found or no access",
	ErrInvalidAlignment:                        "invalid alignment",
	ErrLicenseRefused:                          "license refused",
	ErrLicenseDisabled:                         "license disabled",
	ErrGeneralClientError:                      "general client error",
	ErrInvalidParameterAtService:               "invalid parameter at service",
	ErrPollingListAlreadyExists:                "polling list already exists",
	ErrPollingListNotExists:                    "polling list does not exist",
	ErrVarAlreadyInAPollingList:                "var is already in a polling list",
	ErrVarNotInTheList:                         "var is not in the list",
	ErrPollingResolutionNotSupported:           "polling resolution not supported",
	ErrPartitionNotExist:                       "partition does not exist",
	ErrPartitionNotInitialized:                 "partition not initialized",
	ErrDatasetAlreadyExists:                    "dataset already exists",
	ErrPollingGroupIsRefCounted:                "polling group is ref counted",
	ErrPollingGroupAlreadyExists:               "polling group already exists",
	ErrInvalidPollingGroupsInterval:            "invalid polling group interval",
	ErrPollingGroupIsStillInUse:                "polling group is still in use",
	ErrOperationNotFinishedYet:                 "operation not finished yet",
	ErrOperationAborted:                        "operation aborted",
	ErrEventIDAlreadyInUse:                     "event id already in use",
	ErrEventIDNotFound:                         "event id not found",
	ErrEventBufferFull:                         "event buffer full",
	ErrEventSlotNotConnected:                   "event slot not connected",
	ErrEventSlotAlreadyConnected:               "event slot already connected",
	ErrSyncPortIsLocked:                        "sync port is locked",

	ErrInternalErrorInRealTimeSystem:     "internal error in real time system",
	ErrTimerValueNotValid:                "timer value not valid",
	ErrTaskPointerHasInvalidValueZero:    "task pointer has invalid value zero",
	ErrStackPointerHasInvalidValueZero:   "stack pointer has invalid value zero",
	ErrRequestedTaskStackDataIsTooBig:    "requested task stack data is too big",
	ErrTaskListIsFull:                    "task list is full",
	ErrNoFreeSemaphores:                  "no free semaphores",
	ErrVmxNotSupported:                   "vmx not supported",
	ErrVmxDisabled:                       "vmx disabled",
	ErrVmxControlIsLocked:                "vmx control is locked",
	ErrVmxEnableFailed:                   "vmx enable failed",
	ErrTaskIsNotInTheTaskList:            "task is not in the task list",
	ErrTaskNameAlreadyExists:             "task name already exists",
	ErrSemaphoreAlreadyOwnedByTask:       "semaphore already owned by task",
	ErrInvalidTaskStartPriority:          "invalid task start priority",
	ErrInsufficientPermission:            "insufficient permission",
	ErrExceptionAtSystemStartup:          "exception at system startup",
	ErrLicensedNumberOfCoresExceeded:     "licensed number of cores exceeded",
	ErrOversamplingNotSupported:         "oversampling not supported",
	ErrExtendedStackOverrunDetected:      "extended stack overrun detected",
	ErrExtendedStackCheckingNotPossible:  "extended stack checking not possible",
	ErrRestartBoundaryReached:            "restart boundary reached",
	ErrCoreOrCpuGroupDoesNotExist:        "core or cpu group does not exist",
	ErrPlcSystemIsAlreadyInBootstrapMode: "plc system is already in bootstrap mode",
	ErrPlcSystemIsNotInBootstrapMode:     "plc system is not in bootstrap mode",
	ErrLicensedLevelOfTcBslIsExceeded:    "licensed level of tc bsl is exceeded",
	ErrActivationOfIntelVtXFailed:        "activation of intel vt-x failed",
}
