package handler

type ContextKey string

var (
	RoleCtxKey   ContextKey = "role"
	SubCtxKey    ContextKey = "sub"
	ShiftPlanCtx ContextKey = "shiftPlan"
)
