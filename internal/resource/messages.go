// ABOUTME: Operator-facing notification texts for resource operations
// ABOUTME: Used as fallbacks when the server sends no detail

package resource

const (
	MsgGroupsLoadFailed  = "Failed to fetch groups"
	MsgGroupActivated    = "Group activated ✅"
	MsgGroupDeactivated  = "Group deactivated ⛔"
	MsgToggleFailed      = "Failed to update status"
	MsgGroupDeleted      = "Group deleted"
	MsgDeleteFailed      = "Failed to delete group"
	MsgNoGroups          = "No groups registered yet. Make sure the bot is added as an admin."
	MsgSettingsLoadFail  = "Failed to load settings"
	MsgSettingsSaved     = "Settings updated successfully"
	MsgSettingsSaveFail  = "Failed to update settings"
	MsgSettingsNotLoaded = "Settings have not been loaded yet"
	MsgInvalidAdminID    = "Please enter a valid integer ID"
	MsgDuplicateAdminID  = "This admin already exists"
	MsgInvalidChatID     = "Please enter a valid integer chat ID"
	MsgStatsLoadFailed   = "Failed to load dashboard stats"
	MsgSetupComplete     = "Setup complete! Redirecting..."
	MsgSetupFailed       = "An error occurred during setup"
	MsgSetupFieldsNeeded = "All fields are required"

	// DeleteGroupPrompt is shown before a group is deleted.
	DeleteGroupPrompt = "Are you sure you want to delete this group? It will be removed from the database."
)
