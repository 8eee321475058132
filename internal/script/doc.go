// Package script runs user Lua hooks against panel navigation.
//
// A hook script defines a global function navigate(group, item). It is
// called whenever a region header is activated and may return a string,
// typically the URL or story id of the story to show:
//
//	function navigate(group, item)
//	  storysource.log("opening " .. group .. "@" .. item)
//	  return "http://localhost:6006/?path=/story/" .. storysource.story_id(group, item)
//	end
//
// Scripts run in a sandboxed state with only the base, table, string and
// math libraries. File loading functions are removed.
package script
