package rpc

import (
	"errors"

	"github.com/dmitrijs2005/authgate/internal/common"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"
)

// Domain tags ErrorInfo details produced by authgate.
const Domain = "authgate"

var codeByKind = map[common.Kind]codes.Code{
	common.KindValidation:         codes.InvalidArgument,
	common.KindConflict:           codes.AlreadyExists,
	common.KindInvalidCredentials: codes.Unauthenticated,
	common.KindUnauthenticated:    codes.Unauthenticated,
	common.KindInvalidToken:       codes.Unauthenticated,
	common.KindTokenExpired:       codes.Unauthenticated,
	common.KindUserNotFound:       codes.Unauthenticated,
	common.KindForbidden:          codes.PermissionDenied,
	common.KindNotFound:           codes.NotFound,
	common.KindInternal:           codes.Internal,
}

// CodeFor maps a rejection kind to a gRPC code.
func CodeFor(kind common.Kind) codes.Code {
	if c, ok := codeByKind[kind]; ok {
		return c
	}
	return codes.Internal
}

// ToStatus converts err into a gRPC status error carrying the kind as an
// ErrorInfo reason and violations as BadRequest field violations. The cause
// of an internal error is attached as DebugInfo only when debug is set.
// Errors that already carry a status pass through.
func ToStatus(err error, debug bool) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	ce := common.Internal(err)
	st := status.New(CodeFor(ce.Kind), ce.Message)

	details := []protoadapt.MessageV1{&errdetails.ErrorInfo{Reason: string(ce.Kind), Domain: Domain}}
	if len(ce.Violations) > 0 {
		br := &errdetails.BadRequest{}
		for _, v := range ce.Violations {
			br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       v.Field,
				Description: v.Message,
			})
		}
		details = append(details, br)
	}
	if debug && ce.Kind == common.KindInternal && ce.Err != nil {
		details = append(details, &errdetails.DebugInfo{Detail: ce.Err.Error()})
	}

	withDetails, derr := st.WithDetails(details...)
	if derr != nil {
		return st.Err()
	}
	return withDetails.Err()
}

// FromStatus rebuilds a *common.Error from a status produced by ToStatus.
// Errors without an authgate ErrorInfo are returned unchanged.
func FromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	out := &common.Error{Message: st.Message()}
	for _, d := range st.Details() {
		switch m := d.(type) {
		case *errdetails.ErrorInfo:
			if m.GetDomain() == Domain {
				out.Kind = common.Kind(m.GetReason())
			}
		case *errdetails.BadRequest:
			for _, fv := range m.GetFieldViolations() {
				out.Violations = append(out.Violations, common.Violation{Field: fv.GetField(), Message: fv.GetDescription()})
			}
		case *errdetails.DebugInfo:
			out.Err = errors.New(m.GetDetail())
		}
	}
	if out.Kind == "" {
		return err
	}
	return out
}
