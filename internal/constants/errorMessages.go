package constants

const (
	StatusError          = "Error"
	StatusRowNotFound    = "Row not found"
	StatusColumnNotFound = "Column not found"
	StatusInvalidData    = "Invalid data"
	StatusUnauthorized   = "Edit mode is not enabled"
)

const (
	MsgCoreColumnDelete   = "Core columns cannot be deleted"
	MsgLastVisibleColumn  = "At least one column must remain visible"
	MsgConfirmRequired    = "This action must be confirmed before it is sent"
	MsgDepotNoNotEditable = "The depot row sequence number cannot be edited"
	MsgInvalidImageIndex  = "Invalid image index"
	MsgDuplicateDataKey   = "A column with this data key already exists"
	MsgSortNeedsFilter    = "Sorting by order is only available while a filter is active"
	MsgIncorrectSecret    = "Incorrect password. Please try again."
)
