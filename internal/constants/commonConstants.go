package constants

type (
	RequestSource string
	APIStatus     string
	CachePrefix   string
)

const (
	RequestSourceAPI       RequestSource = "API"
	RequestSourceWebClient RequestSource = "WEB_CLIENT"

	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixLayout    CachePrefix = "LAYOUT_"
	CachePrefixViewState CachePrefix = "VIEW_STATE_"
	CachePrefixRows      CachePrefix = "TABLE_ROWS"
	CachePrefixColumns   CachePrefix = "TABLE_COLUMNS"
)

// DepotLocation marks the single row that acts as the route origin.
const DepotLocation = "QL kitchen"

// Display markers used by the view composer.
const (
	UnknownDistance = "—"
	DepotSequence   = "∞"
	EmptyTotal      = "—"
)

// CoreDataKeys are column data keys that can never be deleted.
var CoreDataKeys = []string{
	"id", "no", "route", "code", "location", "delivery", "trip",
	"alt1", "alt2", "info", "tngSite", "tngRoute", "images",
}

// AggregableCurrencyKeys are currency columns that get a footer total.
var AggregableCurrencyKeys = []string{"tngRoute", "destination", "tollPrice"}

// PageSizes enumerates the allowed page sizes; the first entry is the default.
var PageSizes = []int{16, 30, 50, 100}

const DefaultPageSize = 16

// Column types.
const (
	ColumnTypeText     = "text"
	ColumnTypeNumber   = "number"
	ColumnTypeCurrency = "currency"
	ColumnTypeImages   = "images"
	ColumnTypeSelect   = "select"
)

// Defaults used when a column is created without an explicit name or key.
const (
	DefaultColumnName    = "New Column"
	DefaultColumnDataKey = "newColumn"
)
