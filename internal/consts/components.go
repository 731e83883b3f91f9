package consts

// Component names used for container registration and dependency edges.
const (
	COMP_LOGGING     = "logging"
	COMP_TELEMETRY   = "telemetry"
	COMP_METRICS     = "metrics"
	COMP_POSTGRES    = "postgres"
	COMP_REDIS       = "redis"
	COMP_HTTP_SERVER = "http_server"

	COMP_DAO_TASK     = "task_dao"
	COMP_DAO_CATEGORY = "category_dao"

	COMP_SVC_TASK     = "task_service"
	COMP_SVC_CATEGORY = "category_service"
	COMP_SVC_SWEEP    = "sweep_service"

	COMP_CTRL_TASK     = "task_ctrl"
	COMP_CTRL_CATEGORY = "category_ctrl"
	COMP_CTRL_SWEEP    = "sweep_ctrl"
)
