package jenkins

// Hudson defines the root type returned by the API.
type Hudson struct {
	Class        string        `json:"_class"`
	Mode         string        `json:"mode"`
	NodeName     string        `json:"nodeName"`
	NumExecutors int           `json:"numExecutors"`
	UseCrumbs    bool          `json:"useCrumbs"`
	UseSecurity  bool          `json:"useSecurity"`
	Jobs         []JobSummary  `json:"jobs"`
	Views        []ViewSummary `json:"views"`
	PrimaryView  *ViewSummary  `json:"primaryView"`
}

// JobSummary is the short form of a job within listings.
type JobSummary struct {
	Class string `json:"_class,omitempty"`
	Name  string `json:"name"`
	URL   string `json:"url,omitempty"`
	Color string `json:"color,omitempty"`
}

// ViewSummary is the short form of a view within listings.
type ViewSummary struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// BuildNumber defines a type for build numbers.
type BuildNumber struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
}

// JobResponse defines the response from specific jobs.
type JobResponse struct {
	Class                 string         `json:"_class"`
	Name                  string         `json:"name"`
	DisplayName           string         `json:"displayName"`
	FullName              string         `json:"fullName"`
	Description           string         `json:"description"`
	URL                   string         `json:"url"`
	Buildable             bool           `json:"buildable"`
	Disabled              bool           `json:"disabled"`
	InQueue               bool           `json:"inQueue"`
	Color                 string         `json:"color"`
	Builds                []BuildNumber  `json:"builds"`
	LastBuild             *BuildNumber   `json:"lastBuild"`
	LastCompletedBuild    *BuildNumber   `json:"lastCompletedBuild"`
	LastFailedBuild       *BuildNumber   `json:"lastFailedBuild"`
	LastStableBuild       *BuildNumber   `json:"lastStableBuild"`
	LastSuccessfulBuild   *BuildNumber   `json:"lastSuccessfulBuild"`
	LastUnstableBuild     *BuildNumber   `json:"lastUnstableBuild"`
	LastUnsuccessfulBuild *BuildNumber   `json:"lastUnsuccessfulBuild"`
	NextBuildNumber       int            `json:"nextBuildNumber"`
	Property              []JobProperty  `json:"property"`
	Actions               []JobProperty  `json:"actions"`
	Jobs                  []JobSummary   `json:"jobs"`
	HealthReport          []HealthReport `json:"healthReport"`
}

// JobProperty is an entry of the property or action list of a job.
type JobProperty struct {
	Class                string                `json:"_class"`
	ParameterDefinitions []ParameterDefinition `json:"parameterDefinitions"`
}

// ParameterDefinition defines a parameter accepted by a job.
type ParameterDefinition struct {
	Class                 string          `json:"_class"`
	Name                  string          `json:"name"`
	Type                  string          `json:"type"`
	Description           *string         `json:"description"`
	DefaultParameterValue *ParameterValue `json:"defaultParameterValue"`
	Choices               []string        `json:"choices"`
}

// ParameterValue is a named parameter value.
type ParameterValue struct {
	Class string `json:"_class,omitempty"`
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// HealthReport defines the weather report of a job.
type HealthReport struct {
	Description   string `json:"description"`
	IconClassName string `json:"iconClassName"`
	Score         int    `json:"score"`
}

// Action defines an action attached to builds and queue items.
type Action struct {
	Class      string           `json:"_class"`
	Parameters []ParameterValue `json:"parameters,omitempty"`
	Causes     []Cause          `json:"causes,omitempty"`
}

// Cause defines a build cause.
type Cause struct {
	Class            string `json:"_class"`
	ShortDescription string `json:"shortDescription"`
	UserID           string `json:"userId,omitempty"`
	UserName         string `json:"userName,omitempty"`
}

// BuildResponse defines the response from specific builds.
type BuildResponse struct {
	Class             string   `json:"_class"`
	Number            int      `json:"number"`
	ID                string   `json:"id"`
	URL               string   `json:"url"`
	DisplayName       string   `json:"displayName"`
	FullDisplayName   string   `json:"fullDisplayName"`
	Building          bool     `json:"building"`
	Result            *string  `json:"result"`
	Timestamp         int64    `json:"timestamp"`
	Duration          int64    `json:"duration"`
	EstimatedDuration *int64   `json:"estimatedDuration"`
	QueueID           int64    `json:"queueId"`
	BuiltOn           string   `json:"builtOn"`
	Actions           []Action `json:"actions"`
}

// ViewResponse defines the response from specific views.
type ViewResponse struct {
	Class       string       `json:"_class"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	URL         string       `json:"url"`
	Jobs        []JobSummary `json:"jobs"`
}

// ComputerSet defines the response of the computer listing.
type ComputerSet struct {
	Class          string             `json:"_class"`
	BusyExecutors  int                `json:"busyExecutors"`
	TotalExecutors int                `json:"totalExecutors"`
	DisplayName    string             `json:"displayName"`
	Computer       []ComputerResponse `json:"computer"`
}

// ComputerResponse defines the response from specific computers.
type ComputerResponse struct {
	Class              string         `json:"_class"`
	DisplayName        string         `json:"displayName"`
	Description        string         `json:"description"`
	Idle               bool           `json:"idle"`
	JnlpAgent          bool           `json:"jnlpAgent"`
	NumExecutors       int            `json:"numExecutors"`
	Offline            bool           `json:"offline"`
	OfflineCause       map[string]any `json:"offlineCause"`
	OfflineCauseReason string         `json:"offlineCauseReason"`
	TemporarilyOffline bool           `json:"temporarilyOffline"`
}

// ExecutorResponse defines the response from specific executors.
type ExecutorResponse struct {
	Class             string       `json:"_class"`
	Idle              bool         `json:"idle"`
	LikelyStuck       bool         `json:"likelyStuck"`
	Number            int          `json:"number"`
	Progress          int          `json:"progress"`
	CurrentExecutable *BuildNumber `json:"currentExecutable"`
}

// QueueResponse defines the response of the build queue.
type QueueResponse struct {
	Class string      `json:"_class"`
	Items []QueueItem `json:"items"`
}

// QueueItem defines a pending build request.
type QueueItem struct {
	Class        string   `json:"_class"`
	ID           int64    `json:"id"`
	Blocked      bool     `json:"blocked"`
	Buildable    bool     `json:"buildable"`
	Stuck        bool     `json:"stuck"`
	InQueueSince int64    `json:"inQueueSince"`
	Params       string   `json:"params"`
	URL          string   `json:"url"`
	Why          string   `json:"why"`
	Task         Task     `json:"task"`
	Actions      []Action `json:"actions"`
}

// Task is the job a queue item belongs to.
type Task struct {
	Class string `json:"_class"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Color string `json:"color"`
}

// TestReportResponse defines the test report of a build.
type TestReportResponse struct {
	Class     string      `json:"_class"`
	Duration  float64     `json:"duration"`
	Empty     bool        `json:"empty"`
	FailCount int         `json:"failCount"`
	PassCount int         `json:"passCount"`
	SkipCount int         `json:"skipCount"`
	Suites    []TestSuite `json:"suites"`
}

// TestSuite groups test cases of a report.
type TestSuite struct {
	Name      string     `json:"name"`
	Duration  float64    `json:"duration"`
	ID        any        `json:"id"`
	Timestamp any        `json:"timestamp"`
	Cases     []TestCase `json:"cases"`
}

// TestCase is a single test result.
type TestCase struct {
	Name            string  `json:"name"`
	ClassName       string  `json:"className"`
	Duration        float64 `json:"duration"`
	Status          string  `json:"status"`
	Skipped         bool    `json:"skipped"`
	Age             int     `json:"age"`
	FailedSince     int     `json:"failedSince"`
	ErrorDetails    *string `json:"errorDetails"`
	ErrorStackTrace *string `json:"errorStackTrace"`
}
