// Package console is the terminal front end of the admin console.
//
// # Views
//
// A Router moves between five views, each registered under a path:
//
//	/setup               initial setup form; jumps to the dashboard once setup is done
//	/login               sign-in instructions
//	/dashboard           dashboard counters
//	/dashboard/groups    moderated chats
//	/dashboard/settings  bot configuration draft
//
// Every navigation passes through the access gate, so a protected view
// without a session lands on /login. Unknown paths land on /setup. An
// admitted view is mounted (its controller loads) and then rendered.
//
// # Shell
//
// Shell reads slash commands (/login, /toggle, /set, /save, ...) and maps
// them to the controllers in internal/resource and internal/authflow. It also
// answers the controllers' confirmation prompts from the same input.
//
// New wires a complete shell; Bootstrap builds the configuration, logger,
// session store and API client the binaries share.
package console
