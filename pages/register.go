package pages

// Register adds every page job to r in the order "all" runs them.
func Register(r *Registry) {
	r.Register("unpack-lua", "export decompiled Lua tables as JSON", unpackLuaJob)
	r.Register("items", "create pages for upgrade material items", itemsJob)
	r.Register("infobox", "update the character infobox", infoboxJob)
	r.Register("skills", "write the Skills section of character pages", skillsJob)
	r.Register("potentials", "write the Potentials section of character pages", potentialsJob)
	r.Register("stats", "write character stats and upgrade materials", statsJob)
	r.Register("gifts", "create gift pages and write the Affinity section", giftsJob)
	r.Register("story", "write the affinity archive into the Story section", storyJob)
	r.Register("discs", "create and update disc pages", discsJob)
	r.Register("upload-icons", "upload disc skill icons and disc images", uploadIconsJob)
	r.Register("upload-images", "upload character heads, memory snapshots and skill icons", uploadImagesJob)
}
